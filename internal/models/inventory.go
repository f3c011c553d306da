package models

// Net flow status values reported on each ledger entry.
const (
	NetFlowSurplus = "SURPLUS"
	NetFlowDeficit = "DEFICIT"
)

// InventoryPosition is one period's ledger record for a (warehouse, product)
// pair. Records are immutable once computed: the next period's
// StartingPosition always equals this period's EndingPosition.
type InventoryPosition struct {
	Period              string  `json:"period"`
	StartingPosition    float64 `json:"starting_position"`
	Inflow              float64 `json:"inflow"`
	Outflow             float64 `json:"outflow"`
	NetFlow             float64 `json:"net_flow"`
	NetFlowStatus       string  `json:"net_flow_status"`
	EndingPosition      float64 `json:"ending_position"`
	UnmetOutflow        float64 `json:"unmet_outflow,omitempty"`
	CapacityUtilization float64 `json:"capacity_utilization"`
}

// WarehouseMonthlyPosition aggregates all product ledgers of a warehouse for
// one period.
type WarehouseMonthlyPosition struct {
	Period              string  `json:"period"`
	TotalBefore         float64 `json:"warehouse_total_before"`
	TotalAfter          float64 `json:"warehouse_total_after"`
	CapacityUtilization float64 `json:"capacity_utilization"`
}
