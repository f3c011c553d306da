package models

// Transfer priorities and urgencies.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"

	UrgencyImmediate = "IMMEDIATE"
	UrgencyPlanned   = "PLANNED"
)

// TransferState captures both warehouses' inventory and utilization either
// before or after a proposed transfer.
type TransferState struct {
	SourceUtilization float64 `json:"source_utilization"`
	DestUtilization   float64 `json:"dest_utilization"`
	SourceInventory   float64 `json:"source_inventory"`
	DestInventory     float64 `json:"dest_inventory"`
}

// TransferImpact scores how much a transfer improves network balance.
type TransferImpact struct {
	UtilizationImprovement float64 `json:"utilization_improvement"`
	RiskReduction          int     `json:"risk_reduction"`
	SourceUtilChange       float64 `json:"source_util_change"`
	DestUtilChange         float64 `json:"dest_util_change"`
}

// TransferCost is the simplified economics of executing a transfer.
type TransferCost struct {
	TransferCost   float64 `json:"estimated_transfer_cost"`
	StorageSavings float64 `json:"estimated_storage_savings"`
	NetBenefit     float64 `json:"net_benefit"`
	ROIPercentage  float64 `json:"roi_percentage"`
	DistanceFactor float64 `json:"distance_factor"`
	VolumeDiscount float64 `json:"volume_discount"`
}

// TransferRecommendation is a proposed one-time inventory movement between
// two warehouses. Read-only once produced.
type TransferRecommendation struct {
	TransferID  string         `json:"transfer_id"`
	Source      string         `json:"source_warehouse"`
	Destination string         `json:"destination_warehouse"`
	Quantity    float64        `json:"recommended_transfer"`
	Current     TransferState  `json:"current_state"`
	Projected   TransferState  `json:"projected_state"`
	Impact      TransferImpact `json:"impact_metrics"`
	Cost        TransferCost   `json:"cost_analysis"`
	Priority    string         `json:"priority"`
	Urgency     string         `json:"urgency"`
}

// OptimizationResult is the optimizer's full output: the candidate rankings
// it worked from and the surviving recommendations ordered by impact. An
// empty recommendation list is a valid result — the network is balanced.
type OptimizationResult struct {
	HighUtilization []string                 `json:"high_utilization_warehouses"`
	LowUtilization  []string                 `json:"low_utilization_warehouses"`
	Recommendations []TransferRecommendation `json:"transfer_opportunities"`
}

// ProductWarehouseLevel is one warehouse's final simulated position for a
// single product.
type ProductWarehouseLevel struct {
	CurrentInventory        float64 `json:"current_inventory"`
	UtilizationContribution float64 `json:"utilization_contribution"`
	MonthlyNetFlow          float64 `json:"monthly_net_flow"`
}

// ProductTransferSuggestion proposes moving one product between the most and
// least stocked warehouses carrying it.
type ProductTransferSuggestion struct {
	From     string  `json:"from_warehouse"`
	To       string  `json:"to_warehouse"`
	Quantity float64 `json:"recommended_quantity"`
	Reason   string  `json:"reason"`
	Impact   string  `json:"impact"`
}

// ProductRecommendation is the per-product view of network balance: each
// warehouse's level for the product plus any rebalancing suggestions.
type ProductRecommendation struct {
	WarehouseLevels     map[string]ProductWarehouseLevel `json:"warehouse_levels"`
	TransferSuggestions []ProductTransferSuggestion      `json:"transfer_suggestions"`
}

// TotalCosts sums the cost analysis across all recommendations.
func (r *OptimizationResult) TotalCosts() (transferCost, storageSavings, netBenefit float64) {
	for _, rec := range r.Recommendations {
		transferCost += rec.Cost.TransferCost
		storageSavings += rec.Cost.StorageSavings
		netBenefit += rec.Cost.NetBenefit
	}
	return transferCost, storageSavings, netBenefit
}
