package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Sankalvax/opt/internal/caching"
	"github.com/Sankalvax/opt/internal/config"
	"github.com/Sankalvax/opt/internal/forecast"
	"github.com/Sankalvax/opt/internal/models"
	"github.com/Sankalvax/opt/internal/repositories"
)

// Per-period utilization alert thresholds (percent of capacity).
const (
	periodAlertThreshold     = 90.0
	periodAlertHighThreshold = 95.0
)

const forecastCacheTTL = 6 * time.Hour

// SimulationService walks the forecast horizon month by month and produces
// the full inventory position ledger for every (warehouse, product, period).
type SimulationService interface {
	// Run simulates from the most recent persisted inventory snapshot,
	// starting at the first day of next month. Results are cached per horizon.
	Run(ctx context.Context, horizon int) (*models.ForecastResult, error)

	// Simulate is the deterministic core: given an explicit starting
	// inventory and first period it folds the horizon forward. Periods are
	// strictly chronological — each period's starting position is the
	// previous period's ending position.
	Simulate(ctx context.Context, start models.StartingInventory, firstPeriod time.Time, horizon int) (*models.ForecastResult, error)
}

type simulationService struct {
	oracle       forecast.Oracle
	snapshotRepo repositories.SnapshotRepository
	assumptions  *config.Assumptions
	cache        caching.CacheService
}

func NewSimulationService(oracle forecast.Oracle, snapshotRepo repositories.SnapshotRepository, assumptions *config.Assumptions, cache caching.CacheService) SimulationService {
	return &simulationService{
		oracle:       oracle,
		snapshotRepo: snapshotRepo,
		assumptions:  assumptions,
		cache:        cache,
	}
}

func (s *simulationService) Run(ctx context.Context, horizon int) (*models.ForecastResult, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetForecast(ctx, horizon); cached != nil {
			return cached, nil
		} else if err != nil {
			log.Printf("Cache error for %dm forecast: %v", horizon, err)
		}
	}

	start, err := s.snapshotRepo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load starting inventory snapshot: %w", err)
	}

	now := time.Now().UTC()
	firstPeriod := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	result, err := s.Simulate(ctx, start, firstPeriod, horizon)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetForecast(ctx, horizon, result, forecastCacheTTL); cacheErr != nil {
			log.Printf("Failed to cache %dm forecast: %v", horizon, cacheErr)
		}
	}
	return result, nil
}

func (s *simulationService) Simulate(ctx context.Context, start models.StartingInventory, firstPeriod time.Time, horizon int) (*models.ForecastResult, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("forecast horizon must be positive, got %d", horizon)
	}
	if err := s.checkKeys(start); err != nil {
		return nil, err
	}

	warehouses := s.assumptions.WarehouseNames()
	products := s.assumptions.Products

	result := &models.ForecastResult{
		RunID: uuid.New(),
		Metadata: models.ForecastMetadata{
			GeneratedAt:   time.Now().UTC(),
			HorizonMonths: horizon,
			FirstPeriod:   firstPeriod.Format("2006-01"),
			ForecastType:  "warehouse_product_rolling_inventory",
		},
		Warehouses: make(map[string]*models.WarehouseForecast, len(warehouses)),
	}

	for _, warehouse := range warehouses {
		wf := &models.WarehouseForecast{
			CapacityInfo: s.assumptions.Warehouses[warehouse],
			Products:     make(map[string]*models.ProductLedger, len(products)),
		}
		for _, product := range products {
			wf.Products[product] = &models.ProductLedger{
				Inflows:  make(map[string]models.FlowForecast, horizon),
				Outflows: make(map[string]models.FlowForecast, horizon),
			}
		}
		result.Warehouses[warehouse] = wf
	}

	// Rolling positions, seeded from the snapshot. The snapshot itself stays
	// untouched.
	current := start.Clone()
	for _, warehouse := range warehouses {
		if current[warehouse] == nil {
			current[warehouse] = make(map[string]float64, len(products))
		}
	}

	degraded := make(map[forecast.SeriesKey]bool)

	for i := 0; i < horizon; i++ {
		date := firstPeriod.AddDate(0, i, 0)
		period := date.Format("2006-01")

		for _, warehouse := range warehouses {
			wf := result.Warehouses[warehouse]
			capacity := wf.CapacityInfo.Capacity
			monthly := models.WarehouseMonthlyPosition{Period: period}

			for _, product := range products {
				ledger := wf.Products[product]

				inflow, err := s.predict(ctx, warehouse, product, forecast.FlowInflow, date, degraded)
				if err != nil {
					return nil, err
				}
				outflow, err := s.predict(ctx, warehouse, product, forecast.FlowOutflow, date, degraded)
				if err != nil {
					return nil, err
				}
				ledger.Inflows[period] = inflow
				ledger.Outflows[period] = outflow

				netFlow := inflow.Forecast - outflow.Forecast
				before := current[warehouse][product]
				after := before + netFlow
				var unmet float64
				if after < 0 {
					// Cannot ship more than is on hand: the shortfall is
					// absorbed, recorded as unmet outflow, and the position
					// clamps to zero.
					unmet = -after
					after = 0
				}
				current[warehouse][product] = after

				status := models.NetFlowDeficit
				if netFlow > 0 {
					status = models.NetFlowSurplus
				}
				ledger.Ledger = append(ledger.Ledger, models.InventoryPosition{
					Period:              period,
					StartingPosition:    before,
					Inflow:              inflow.Forecast,
					Outflow:             outflow.Forecast,
					NetFlow:             netFlow,
					NetFlowStatus:       status,
					EndingPosition:      after,
					UnmetOutflow:        unmet,
					CapacityUtilization: after / capacity * 100,
				})

				monthly.TotalBefore += before
				monthly.TotalAfter += after
			}

			monthly.CapacityUtilization = monthly.TotalAfter / capacity * 100
			wf.MonthlyPositions = append(wf.MonthlyPositions, monthly)

			if monthly.CapacityUtilization > periodAlertThreshold {
				severity := models.SeverityMedium
				priority := 2
				if monthly.CapacityUtilization > periodAlertHighThreshold {
					severity = models.SeverityHigh
					priority = 1
				}
				result.Alerts = append(result.Alerts, models.CapacityAlert{
					Type:      models.AlertOverCapacityRisk,
					Severity:  severity,
					Warehouse: warehouse,
					Period:    period,
					Message:   fmt.Sprintf("%s will be at %.1f%% capacity in %s", warehouse, monthly.CapacityUtilization, period),
					Priority:  priority,
				})
			}
		}
	}

	result.Metadata.DegradedSeries = len(degraded)
	result.Summary = s.networkSummary(result, warehouses, products)
	return result, nil
}

func (s *simulationService) predict(ctx context.Context, warehouse, product string, flow forecast.FlowType, date time.Time, degraded map[forecast.SeriesKey]bool) (models.FlowForecast, error) {
	key := forecast.SeriesKey{Warehouse: warehouse, Product: product, Flow: flow}
	p, err := s.oracle.Predict(ctx, key, date)
	if err != nil {
		return models.FlowForecast{}, fmt.Errorf("oracle failed for %s/%s %s at %s: %w", warehouse, product, flow, date.Format("2006-01"), err)
	}
	if p.Source != models.ForecastSourceModel {
		degraded[key] = true
	}
	return models.FlowForecast{
		Forecast: clampFlow(p.Point),
		Lower:    clampFlow(p.Lower),
		Upper:    clampFlow(p.Upper),
		Source:   p.Source,
	}, nil
}

func (s *simulationService) checkKeys(start models.StartingInventory) error {
	known := make(map[string]bool, len(s.assumptions.Products))
	for _, p := range s.assumptions.Products {
		known[p] = true
	}
	warehouses := make([]string, 0, len(start))
	for warehouse := range start {
		warehouses = append(warehouses, warehouse)
	}
	sort.Strings(warehouses)
	for _, warehouse := range warehouses {
		if _, ok := s.assumptions.Warehouses[warehouse]; !ok {
			return fmt.Errorf("%w: warehouse %q in snapshot is not configured", ErrUnknownKey, warehouse)
		}
		for product := range start[warehouse] {
			if !known[product] {
				return fmt.Errorf("%w: product %q at warehouse %q is not configured", ErrUnknownKey, product, warehouse)
			}
		}
	}
	return nil
}

func (s *simulationService) networkSummary(result *models.ForecastResult, warehouses, products []string) models.NetworkSummary {
	summary := models.NetworkSummary{
		TotalWarehouses: len(warehouses),
		TotalProducts:   len(products),
		TotalAlerts:     len(result.Alerts),
	}
	for _, warehouse := range warehouses {
		wf := result.Warehouses[warehouse]
		for _, product := range products {
			ledger := wf.Products[product]
			for _, f := range ledger.Inflows {
				summary.ProjectedInflow += f.Forecast
			}
			for _, f := range ledger.Outflows {
				summary.ProjectedOutflow += f.Forecast
			}
			if n := len(ledger.Ledger); n > 0 {
				summary.FinalNetworkInventory += ledger.Ledger[n-1].EndingPosition
			}
		}
	}
	summary.NetPosition = summary.ProjectedInflow - summary.ProjectedOutflow
	for _, alert := range result.Alerts {
		if alert.Severity == models.SeverityHigh {
			summary.WarehousesAtRisk++
		}
	}
	return summary
}

func clampFlow(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
