package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sankalvax/opt/internal/models"
)

func scenarioBaseline() map[string]*models.CapacityAnalysis {
	return map[string]*models.CapacityAnalysis{
		"Atlanta": transferAnalysis("Atlanta", 100000, 90),
		"Chicago": transferAnalysis("Chicago", 100000, 20),
	}
}

func newScenarioService() ScenarioService {
	assumptions := testAssumptions(map[string]float64{"Atlanta": 100000, "Chicago": 100000})
	return NewScenarioService(NewCapacityService(), NewTransferService(assumptions))
}

func floatPtr(v float64) *float64 { return &v }

func TestScenarioDoesNotMutateBaseline(t *testing.T) {
	baseline := scenarioBaseline()
	snapshot := make(map[string]*models.CapacityAnalysis, len(baseline))
	for name, a := range baseline {
		snapshot[name] = a.Clone()
	}

	cfg := &models.ScenarioConfig{
		Name: "rebalance",
		Type: "what_if",
		WarehouseChanges: map[string]models.WarehouseChange{
			"Atlanta": {TargetUtilization: floatPtr(75)},
		},
		Injections: []models.InventoryInjection{
			{Warehouse: "Chicago", Quantity: 10000},
		},
	}

	_, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	for name, a := range baseline {
		assert.Equal(t, snapshot[name], a, "baseline analysis for %s changed", name)
	}
}

func TestScenarioTargetUtilizationOverride(t *testing.T) {
	baseline := scenarioBaseline()
	cfg := &models.ScenarioConfig{
		Name: "derisk atlanta",
		WarehouseChanges: map[string]models.WarehouseChange{
			"Atlanta": {TargetUtilization: floatPtr(60)},
		},
	}

	result, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	atlanta := result.Scenario.CapacityAnalysis["Atlanta"]
	assert.Equal(t, 60.0, atlanta.Utilization.Final)
	assert.Equal(t, 60000.0, atlanta.WarehouseInfo.CurrentInventory)
	assert.Equal(t, 40000.0, atlanta.WarehouseInfo.AvailableCapacity)

	// Risk is reassessed at the new level: avg 60 scores nothing, peak 62
	// scores nothing, flat trend scores nothing.
	assert.Equal(t, models.RiskMinimal, atlanta.Risk.Level)
	assert.Equal(t, 0, atlanta.Risk.Score)

	change := result.Impact.UtilizationChanges["Atlanta"]
	assert.Equal(t, 90.0, change.Baseline)
	assert.Equal(t, 60.0, change.Scenario)
	assert.Equal(t, -30.0, change.Change)
}

func TestScenarioTrendOverrideRaisesRisk(t *testing.T) {
	baseline := scenarioBaseline()
	cfg := &models.ScenarioConfig{
		Name: "demand surge",
		WarehouseChanges: map[string]models.WarehouseChange{
			"Atlanta": {TrendDirection: models.TrendIncreasing},
		},
	}

	result, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	atlanta := result.Scenario.CapacityAnalysis["Atlanta"]
	assert.Equal(t, models.TrendIncreasing, atlanta.Trend.Direction)
	// avg 90 (+3), peak 92 (+2), slope 1.0 (+1) = 6.
	assert.Equal(t, 6, atlanta.Risk.Score)
	assert.Equal(t, models.RiskHigh, atlanta.Risk.Level)
	assert.Contains(t, atlanta.Risk.Factors, "Increasing trend")
}

func TestScenarioBaselineTrendDoesNotInflateRescoredRisk(t *testing.T) {
	baseline := scenarioBaseline()
	baseline["Atlanta"].Trend.Direction = models.TrendIncreasing

	// Only the utilization changes; the scenario asserts nothing about trend,
	// so the re-scored risk carries no trend component even though the
	// baseline trend was Increasing.
	cfg := &models.ScenarioConfig{
		Name: "target only",
		WarehouseChanges: map[string]models.WarehouseChange{
			"Atlanta": {TargetUtilization: floatPtr(90)},
		},
	}

	result, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	atlanta := result.Scenario.CapacityAnalysis["Atlanta"]
	// avg 90 (+3), peak 92 (+2), no trend points.
	assert.Equal(t, 5, atlanta.Risk.Score)
	assert.NotContains(t, atlanta.Risk.Factors, "Increasing trend")
	assert.NotContains(t, atlanta.Risk.Factors, "Rapidly increasing trend")
	// The baseline trend itself survives on the clone.
	assert.Equal(t, models.TrendIncreasing, atlanta.Trend.Direction)
}

func TestScenarioInventoryInjection(t *testing.T) {
	baseline := scenarioBaseline()
	cfg := &models.ScenarioConfig{
		Name: "chicago restock",
		Injections: []models.InventoryInjection{
			{Warehouse: "Chicago", Quantity: 10000, Description: "large donation event"},
		},
	}

	result, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	chicago := result.Scenario.CapacityAnalysis["Chicago"]
	assert.Equal(t, 30000.0, chicago.WarehouseInfo.CurrentInventory)
	assert.Equal(t, 30.0, chicago.Utilization.Final)
	assert.Equal(t, 70000.0, chicago.WarehouseInfo.AvailableCapacity)

	assert.InDelta(t, 10.0, result.Impact.TotalUtilizationChange, 1e-9)
}

func TestScenarioImpactCostDeltas(t *testing.T) {
	baseline := scenarioBaseline()

	// Pulling Atlanta down to 75% leaves no source above the 70%+excess
	// threshold worth moving, so the scenario loses the baseline transfer.
	cfg := &models.ScenarioConfig{
		Name: "atlanta drawdown",
		WarehouseChanges: map[string]models.WarehouseChange{
			"Atlanta": {TargetUtilization: floatPtr(75)},
		},
	}

	result, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	require.Len(t, result.Baseline.Transfers.Recommendations, 1)
	assert.Empty(t, result.Scenario.Transfers.Recommendations)
	assert.Equal(t, 0, result.Impact.TransferOpportunities)

	baseCost, baseSavings, baseNet := result.Baseline.Transfers.TotalCosts()
	assert.InDelta(t, -baseCost, result.Impact.CostImpact.TransferCostDelta, 1e-9)
	assert.InDelta(t, -baseSavings, result.Impact.CostImpact.StorageSavingsDelta, 1e-9)
	assert.InDelta(t, -baseNet, result.Impact.CostImpact.NetImpact, 1e-9)
}

func TestScenarioUnknownWarehouseRejected(t *testing.T) {
	baseline := scenarioBaseline()

	_, err := newScenarioService().Run(baseline, &models.ScenarioConfig{
		Name:             "bad change",
		WarehouseChanges: map[string]models.WarehouseChange{"Reno": {TargetUtilization: floatPtr(50)}},
	})
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = newScenarioService().Run(baseline, &models.ScenarioConfig{
		Name:       "bad injection",
		Injections: []models.InventoryInjection{{Warehouse: "Reno", Quantity: 100}},
	})
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestScenarioNegativeInjectionRejected(t *testing.T) {
	_, err := newScenarioService().Run(scenarioBaseline(), &models.ScenarioConfig{
		Name:       "negative",
		Injections: []models.InventoryInjection{{Warehouse: "Chicago", Quantity: -5}},
	})
	assert.Error(t, err)
}

func TestScenarioGeneratesAlertsForBothSides(t *testing.T) {
	baseline := map[string]*models.CapacityAnalysis{
		"Atlanta": transferAnalysis("Atlanta", 100000, 60),
	}
	cfg := &models.ScenarioConfig{
		Name: "overload atlanta",
		WarehouseChanges: map[string]models.WarehouseChange{
			"Atlanta": {TargetUtilization: floatPtr(96)},
		},
	}

	result, err := newScenarioService().Run(baseline, cfg)
	require.NoError(t, err)

	assert.Empty(t, result.Baseline.Alerts)
	require.Len(t, result.Scenario.Alerts, 1)
	assert.Equal(t, models.AlertHighUtilization, result.Scenario.Alerts[0].Type)
	assert.Equal(t, "Atlanta", result.Scenario.Alerts[0].Warehouse)
}
