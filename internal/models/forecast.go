package models

import (
	"time"

	"github.com/google/uuid"
)

// Forecast confidence sources. A "model" forecast came from the oracle
// backend; "historical_mean" is the training-series fallback; "none" means no
// model and no history existed, so the series is projected as zero.
const (
	ForecastSourceModel          = "model"
	ForecastSourceHistoricalMean = "historical_mean"
	ForecastSourceNone           = "none"
)

// FlowForecast is one period's point/interval estimate for a single series.
type FlowForecast struct {
	Forecast float64 `json:"forecast"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Source   string  `json:"source"`
}

// ProductLedger holds everything the simulator produced for one
// (warehouse, product) pair: the raw flow forecasts per period plus the
// chained rolling-inventory ledger.
type ProductLedger struct {
	Inflows  map[string]FlowForecast `json:"inflows"`
	Outflows map[string]FlowForecast `json:"outflows"`
	Ledger   []InventoryPosition     `json:"rolling_inventory"`
}

// WarehouseForecast is the per-warehouse slice of a forecast run.
type WarehouseForecast struct {
	CapacityInfo     WarehouseConfig            `json:"capacity_info"`
	Products         map[string]*ProductLedger  `json:"products"`
	MonthlyPositions []WarehouseMonthlyPosition `json:"monthly_positions"`
}

// NetworkSummary aggregates flows and final positions across the network.
type NetworkSummary struct {
	TotalWarehouses       int     `json:"total_warehouses"`
	TotalProducts         int     `json:"total_products"`
	ProjectedInflow       float64 `json:"network_projected_inflow"`
	ProjectedOutflow      float64 `json:"network_projected_outflow"`
	NetPosition           float64 `json:"network_net_position"`
	FinalNetworkInventory float64 `json:"final_network_inventory"`
	WarehousesAtRisk      int     `json:"warehouses_at_risk"`
	TotalAlerts           int     `json:"total_alerts"`
}

// ForecastMetadata describes how and when a run was produced.
type ForecastMetadata struct {
	GeneratedAt    time.Time `json:"generated_at"`
	HorizonMonths  int       `json:"forecast_horizon_months"`
	FirstPeriod    string    `json:"first_period"`
	ForecastType   string    `json:"forecast_type"`
	DegradedSeries int       `json:"degraded_series,omitempty"`
}

// ForecastResult is the full output of one rolling-simulation run: the
// complete ledger for every (warehouse, product, period), per-period capacity
// alerts, and the network summary.
type ForecastResult struct {
	RunID      uuid.UUID                     `json:"run_id"`
	Metadata   ForecastMetadata              `json:"metadata"`
	Warehouses map[string]*WarehouseForecast `json:"warehouses"`
	Summary    NetworkSummary                `json:"network_summary"`
	Alerts     []CapacityAlert               `json:"alerts"`
}

// FinalPositions extracts each warehouse's ending total inventory after the
// last simulated period, which seeds the capacity analysis.
func (r *ForecastResult) FinalPositions() map[string]float64 {
	out := make(map[string]float64, len(r.Warehouses))
	for name, wf := range r.Warehouses {
		if n := len(wf.MonthlyPositions); n > 0 {
			out[name] = wf.MonthlyPositions[n-1].TotalAfter
		}
	}
	return out
}
