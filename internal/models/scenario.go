package models

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseChange is one warehouse's what-if override inside a scenario.
type WarehouseChange struct {
	TargetUtilization *float64 `json:"target_utilization,omitempty"`
	TrendDirection    string   `json:"trend_direction,omitempty"`
}

// InventoryInjection is a one-time addition of stock to a warehouse, e.g. a
// large donation event landing in a single period.
type InventoryInjection struct {
	Warehouse   string  `json:"warehouse"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description,omitempty"`
}

// ScenarioConfig names a set of per-warehouse overrides plus optional
// network-wide injections. A scenario never mutates baseline data.
type ScenarioConfig struct {
	Name             string                     `json:"name"`
	Type             string                     `json:"type,omitempty"`
	WarehouseChanges map[string]WarehouseChange `json:"warehouse_changes,omitempty"`
	Injections       []InventoryInjection       `json:"inventory_injections,omitempty"`
}

// ScenarioOutcome bundles the analysis, transfer set, and alerts for one side
// of a scenario comparison.
type ScenarioOutcome struct {
	CapacityAnalysis map[string]*CapacityAnalysis `json:"capacity_analysis"`
	Transfers        OptimizationResult           `json:"transfers"`
	Alerts           []CapacityAlert              `json:"capacity_alerts"`
}

// UtilizationChange is one warehouse's final-utilization delta, scenario
// minus baseline.
type UtilizationChange struct {
	Baseline float64 `json:"baseline"`
	Scenario float64 `json:"scenario"`
	Change   float64 `json:"change"`
}

// CostImpact holds the scenario-minus-baseline deltas of the two transfer
// sets' economics.
type CostImpact struct {
	TransferCostDelta   float64 `json:"transfer_cost_delta"`
	StorageSavingsDelta float64 `json:"storage_savings_delta"`
	NetImpact           float64 `json:"net_impact"`
}

// ImpactSummary diffs a scenario against its baseline.
type ImpactSummary struct {
	UtilizationChanges     map[string]UtilizationChange `json:"utilization_changes"`
	TransferOpportunities  int                          `json:"transfer_opportunities_created"`
	TotalUtilizationChange float64                      `json:"total_utilization_change"`
	CostImpact             CostImpact                   `json:"cost_impact"`
}

// ScenarioResult is the full output of a scenario run: both outcomes plus the
// impact summary.
type ScenarioResult struct {
	RunID        uuid.UUID       `json:"run_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	ScenarioName string          `json:"scenario_name"`
	ScenarioType string          `json:"scenario_type"`
	Baseline     ScenarioOutcome `json:"baseline"`
	Scenario     ScenarioOutcome `json:"scenario"`
	Impact       ImpactSummary   `json:"impact_summary"`
}
