package models

// Risk levels, ordered by severity.
const (
	RiskMinimal = "MINIMAL"
	RiskLow     = "LOW"
	RiskMedium  = "MEDIUM"
	RiskHigh    = "HIGH"
)

// Trend directions for a utilization timeline.
const (
	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
	TrendStable     = "Stable"
)

// Capacity alert types.
const (
	AlertOverCapacityRisk  = "OVER_CAPACITY_RISK"
	AlertHighUtilization   = "HIGH_UTILIZATION"
	AlertUnderUtilization  = "UNDER_UTILIZATION"
	AlertCapacityTrendWarn = "CAPACITY_TREND_WARNING"
)

// Alert severities.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// UtilizationMetrics are the aggregate statistics of a utilization timeline,
// all expressed as percentages of warehouse capacity.
type UtilizationMetrics struct {
	Average float64 `json:"average_utilization"`
	Max     float64 `json:"max_utilization"`
	Min     float64 `json:"min_utilization"`
	Final   float64 `json:"final_utilization"`
	Range   float64 `json:"utilization_range"`
}

// TrendAnalysis is the least-squares fit of utilization against period index.
type TrendAnalysis struct {
	Direction  string  `json:"trend_direction"`
	Slope      float64 `json:"trend_slope"`
	Volatility float64 `json:"volatility"`
}

// RiskAssessment is the additive rule-based capacity risk score. It is a pure
// function of the utilization timeline: identical inputs always produce an
// identical score, level, and factor set.
type RiskAssessment struct {
	Level   string   `json:"level"`
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// TimelineData is the ordered per-period utilization history backing an
// analysis.
type TimelineData struct {
	Periods         []string  `json:"periods"`
	UtilizationPct  []float64 `json:"utilization_pct"`
	InventoryLevels []float64 `json:"inventory_levels"`
}

// CapacityAnalysis is the derived, per-warehouse view the optimizer and
// alerting consume. It is recomputed whenever the underlying timeline
// changes, never mutated in place.
type CapacityAnalysis struct {
	WarehouseInfo WarehouseInfo      `json:"warehouse_info"`
	Utilization   UtilizationMetrics `json:"utilization_metrics"`
	Trend         TrendAnalysis      `json:"trend_analysis"`
	Risk          RiskAssessment     `json:"risk_assessment"`
	Timeline      TimelineData       `json:"timeline_data"`
}

// Clone deep-copies the analysis so scenario runs can modify their copy
// without touching the baseline.
func (a *CapacityAnalysis) Clone() *CapacityAnalysis {
	cp := *a
	cp.Risk.Factors = append([]string(nil), a.Risk.Factors...)
	cp.Timeline.Periods = append([]string(nil), a.Timeline.Periods...)
	cp.Timeline.UtilizationPct = append([]float64(nil), a.Timeline.UtilizationPct...)
	cp.Timeline.InventoryLevels = append([]float64(nil), a.Timeline.InventoryLevels...)
	return &cp
}

// CapacityAlert flags a capacity condition for a warehouse. Alerts are
// stateless and regenerated on every run.
type CapacityAlert struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Warehouse      string `json:"warehouse"`
	Period         string `json:"period,omitempty"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
	Priority       int    `json:"priority"`
}
