package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/Sankalvax/opt/internal/models"
)

// Trend slope thresholds (percentage points of utilization per period).
const (
	trendIncreasingSlope = 0.5
	trendDecreasingSlope = -0.5
)

// CapacityService derives per-warehouse utilization statistics, trend, and
// risk from a simulated forecast. All methods are pure functions of their
// inputs: re-running on an identical timeline yields bit-identical output.
type CapacityService interface {
	AnalyzeNetwork(result *models.ForecastResult) map[string]*models.CapacityAnalysis
	Analyze(cfg models.WarehouseConfig, timeline models.TimelineData) *models.CapacityAnalysis
	AssessRisk(avgUtil, maxUtil, trendSlope float64) models.RiskAssessment
	GenerateAlerts(analyses map[string]*models.CapacityAnalysis) []models.CapacityAlert
}

type capacityService struct{}

func NewCapacityService() CapacityService {
	return capacityService{}
}

// AnalyzeNetwork extracts each warehouse's utilization timeline from the
// forecast result and analyzes it.
func (c capacityService) AnalyzeNetwork(result *models.ForecastResult) map[string]*models.CapacityAnalysis {
	analyses := make(map[string]*models.CapacityAnalysis, len(result.Warehouses))
	for name, wf := range result.Warehouses {
		if len(wf.MonthlyPositions) == 0 {
			continue
		}
		timeline := models.TimelineData{
			Periods:         make([]string, 0, len(wf.MonthlyPositions)),
			UtilizationPct:  make([]float64, 0, len(wf.MonthlyPositions)),
			InventoryLevels: make([]float64, 0, len(wf.MonthlyPositions)),
		}
		for _, pos := range wf.MonthlyPositions {
			timeline.Periods = append(timeline.Periods, pos.Period)
			timeline.UtilizationPct = append(timeline.UtilizationPct, pos.CapacityUtilization)
			timeline.InventoryLevels = append(timeline.InventoryLevels, pos.TotalAfter)
		}
		analyses[name] = c.Analyze(wf.CapacityInfo, timeline)
	}
	return analyses
}

func (c capacityService) Analyze(cfg models.WarehouseConfig, timeline models.TimelineData) *models.CapacityAnalysis {
	utilization := timeline.UtilizationPct

	metrics := models.UtilizationMetrics{
		Average: mean(utilization),
		Max:     maxOf(utilization),
		Min:     minOf(utilization),
	}
	if len(utilization) > 0 {
		metrics.Final = utilization[len(utilization)-1]
	}
	metrics.Range = metrics.Max - metrics.Min

	var slope float64
	direction := models.TrendStable
	if len(utilization) > 1 {
		slope = leastSquaresSlope(utilization)
		switch {
		case slope > trendIncreasingSlope:
			direction = models.TrendIncreasing
		case slope < trendDecreasingSlope:
			direction = models.TrendDecreasing
		}
	}

	var currentInventory float64
	if n := len(timeline.InventoryLevels); n > 0 {
		currentInventory = timeline.InventoryLevels[n-1]
	}
	available := cfg.Capacity - currentInventory

	return &models.CapacityAnalysis{
		WarehouseInfo: models.WarehouseInfo{
			Name:                 cfg.Name,
			MaxCapacity:          cfg.Capacity,
			CurrentInventory:     currentInventory,
			AvailableCapacity:    available,
			AvailableCapacityPct: available / cfg.Capacity * 100,
		},
		Utilization: metrics,
		Trend: models.TrendAnalysis{
			Direction:  direction,
			Slope:      slope,
			Volatility: stddev(utilization),
		},
		Risk:     c.AssessRisk(metrics.Average, metrics.Max, slope),
		Timeline: timeline,
	}
}

// AssessRisk applies the additive scoring rules. The rules are
// order-independent: each contributes its points regardless of the others.
func (c capacityService) AssessRisk(avgUtil, maxUtil, trendSlope float64) models.RiskAssessment {
	score := 0
	var factors []string

	switch {
	case avgUtil > 80:
		score += 3
		factors = append(factors, "High average utilization")
	case avgUtil > 60:
		score++
		factors = append(factors, "Moderate utilization")
	}

	switch {
	case maxUtil > 95:
		score += 3
		factors = append(factors, "Near capacity peaks")
	case maxUtil > 85:
		score += 2
		factors = append(factors, "High peak utilization")
	}

	switch {
	case trendSlope > 1.0:
		score += 2
		factors = append(factors, "Rapidly increasing trend")
	case trendSlope > trendIncreasingSlope:
		score++
		factors = append(factors, "Increasing trend")
	}

	level := models.RiskMinimal
	switch {
	case score >= 5:
		level = models.RiskHigh
	case score >= 3:
		level = models.RiskMedium
	case score >= 1:
		level = models.RiskLow
	}

	if len(factors) == 0 {
		factors = []string{"Low risk profile"}
	}
	return models.RiskAssessment{Level: level, Score: score, Factors: factors}
}

// GenerateAlerts derives capacity alerts from the analyses, sorted by
// priority then warehouse name.
func (c capacityService) GenerateAlerts(analyses map[string]*models.CapacityAnalysis) []models.CapacityAlert {
	names := make([]string, 0, len(analyses))
	for name := range analyses {
		names = append(names, name)
	}
	sort.Strings(names)

	var alerts []models.CapacityAlert
	for _, name := range names {
		a := analyses[name]
		m := a.Utilization

		switch {
		case m.Max > 95:
			alerts = append(alerts, models.CapacityAlert{
				Type:           models.AlertOverCapacityRisk,
				Severity:       models.SeverityHigh,
				Warehouse:      name,
				Message:        fmt.Sprintf("%s reached %.1f%% capacity - immediate action required", name, m.Max),
				Recommendation: "Initiate emergency transfers or expand storage",
				Priority:       1,
			})
		case m.Final > 85:
			alerts = append(alerts, models.CapacityAlert{
				Type:           models.AlertHighUtilization,
				Severity:       models.SeverityMedium,
				Warehouse:      name,
				Message:        fmt.Sprintf("%s operating at %.1f%% capacity", name, m.Final),
				Recommendation: "Plan transfers to optimize capacity utilization",
				Priority:       2,
			})
		case m.Final < 30:
			alerts = append(alerts, models.CapacityAlert{
				Type:           models.AlertUnderUtilization,
				Severity:       models.SeverityLow,
				Warehouse:      name,
				Message:        fmt.Sprintf("%s only %.1f%% utilized - opportunity for optimization", name, m.Final),
				Recommendation: "Consider accepting transfers from high-utilization warehouses",
				Priority:       3,
			})
		}

		if a.Trend.Direction == models.TrendIncreasing && m.Final > 70 {
			alerts = append(alerts, models.CapacityAlert{
				Type:           models.AlertCapacityTrendWarn,
				Severity:       models.SeverityMedium,
				Warehouse:      name,
				Message:        fmt.Sprintf("%s showing increasing utilization trend - monitor closely", name),
				Recommendation: "Prepare contingency plans for capacity management",
				Priority:       2,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority < alerts[j].Priority
	})
	return alerts
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := mean(values)
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// leastSquaresSlope fits utilization against period index 0..n-1.
func leastSquaresSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
