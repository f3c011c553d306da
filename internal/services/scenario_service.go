package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Sankalvax/opt/internal/models"
)

// ScenarioService re-runs capacity analysis and transfer optimization
// against a perturbed baseline and diffs the two. The baseline is never
// mutated: every scenario operates on a deep copy.
type ScenarioService interface {
	Run(baseline map[string]*models.CapacityAnalysis, cfg *models.ScenarioConfig) (*models.ScenarioResult, error)
}

type scenarioService struct {
	capacity CapacityService
	transfer TransferService
}

func NewScenarioService(capacity CapacityService, transfer TransferService) ScenarioService {
	return &scenarioService{capacity: capacity, transfer: transfer}
}

func (s *scenarioService) Run(baseline map[string]*models.CapacityAnalysis, cfg *models.ScenarioConfig) (*models.ScenarioResult, error) {
	scenario, err := s.applyChanges(baseline, cfg)
	if err != nil {
		return nil, err
	}

	baselineOutcome := s.outcome(baseline)
	scenarioOutcome := s.outcome(scenario)

	result := &models.ScenarioResult{
		RunID:        uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		ScenarioName: cfg.Name,
		ScenarioType: cfg.Type,
		Baseline:     baselineOutcome,
		Scenario:     scenarioOutcome,
		Impact:       s.impactSummary(baseline, scenario, &baselineOutcome, &scenarioOutcome),
	}
	return result, nil
}

func (s *scenarioService) outcome(analyses map[string]*models.CapacityAnalysis) models.ScenarioOutcome {
	return models.ScenarioOutcome{
		CapacityAnalysis: analyses,
		Transfers:        *s.transfer.Recommend(analyses),
		Alerts:           s.capacity.GenerateAlerts(analyses),
	}
}

// applyChanges builds the scenario's sibling analysis set from deep copies of
// the baseline records.
func (s *scenarioService) applyChanges(baseline map[string]*models.CapacityAnalysis, cfg *models.ScenarioConfig) (map[string]*models.CapacityAnalysis, error) {
	for warehouse := range cfg.WarehouseChanges {
		if _, ok := baseline[warehouse]; !ok {
			return nil, fmt.Errorf("%w: scenario references warehouse %q", ErrUnknownKey, warehouse)
		}
	}
	for _, injection := range cfg.Injections {
		if _, ok := baseline[injection.Warehouse]; !ok {
			return nil, fmt.Errorf("%w: injection references warehouse %q", ErrUnknownKey, injection.Warehouse)
		}
		if injection.Quantity < 0 {
			return nil, fmt.Errorf("injection quantity for %q cannot be negative", injection.Warehouse)
		}
	}

	scenario := make(map[string]*models.CapacityAnalysis, len(baseline))
	for warehouse, analysis := range baseline {
		clone := analysis.Clone()

		if change, ok := cfg.WarehouseChanges[warehouse]; ok {
			if change.TargetUtilization != nil {
				target := *change.TargetUtilization
				clone.WarehouseInfo.CurrentInventory = clone.WarehouseInfo.MaxCapacity * target / 100
				clone.Utilization.Final = target
			}
			if change.TrendDirection != "" {
				clone.Trend.Direction = change.TrendDirection
			}

			// Risk is re-scored against the override alone. A baseline trend
			// that was already Increasing contributes nothing unless the
			// scenario itself asserts it.
			slope := 0.0
			if change.TrendDirection == models.TrendIncreasing {
				slope = 1.0
			}
			newUtil := clone.Utilization.Final
			clone.Risk = s.capacity.AssessRisk(newUtil, newUtil+2, slope)
			refreshAvailableCapacity(clone)
		}

		scenario[warehouse] = clone
	}

	for _, injection := range cfg.Injections {
		clone := scenario[injection.Warehouse]
		clone.WarehouseInfo.CurrentInventory += injection.Quantity
		clone.Utilization.Final = clone.WarehouseInfo.CurrentInventory / clone.WarehouseInfo.MaxCapacity * 100
		refreshAvailableCapacity(clone)
	}

	return scenario, nil
}

func refreshAvailableCapacity(a *models.CapacityAnalysis) {
	a.WarehouseInfo.AvailableCapacity = a.WarehouseInfo.MaxCapacity - a.WarehouseInfo.CurrentInventory
	a.WarehouseInfo.AvailableCapacityPct = a.WarehouseInfo.AvailableCapacity / a.WarehouseInfo.MaxCapacity * 100
}

func (s *scenarioService) impactSummary(baseline, scenario map[string]*models.CapacityAnalysis, baselineOutcome, scenarioOutcome *models.ScenarioOutcome) models.ImpactSummary {
	impact := models.ImpactSummary{
		UtilizationChanges:    make(map[string]models.UtilizationChange, len(baseline)),
		TransferOpportunities: len(scenarioOutcome.Transfers.Recommendations),
	}

	for warehouse, base := range baseline {
		baseUtil := base.Utilization.Final
		scenarioUtil := scenario[warehouse].Utilization.Final
		impact.UtilizationChanges[warehouse] = models.UtilizationChange{
			Baseline: baseUtil,
			Scenario: scenarioUtil,
			Change:   scenarioUtil - baseUtil,
		}
		impact.TotalUtilizationChange += math.Abs(scenarioUtil - baseUtil)
	}

	baseCost, baseSavings, baseNet := baselineOutcome.Transfers.TotalCosts()
	scenCost, scenSavings, scenNet := scenarioOutcome.Transfers.TotalCosts()
	impact.CostImpact = models.CostImpact{
		TransferCostDelta:   scenCost - baseCost,
		StorageSavingsDelta: scenSavings - baseSavings,
		NetImpact:           scenNet - baseNet,
	}
	return impact
}
