package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/Sankalvax/opt/internal/config"
	"github.com/Sankalvax/opt/internal/models"
)

// Source/destination candidate thresholds and counts.
const (
	maxTransferCandidates  = 3
	sourceUtilThreshold    = 70.0
	destUtilThreshold      = 50.0
	excessTransferFraction = 0.7
	immediateUrgencyUtil   = 90.0
)

// Volume discount tiers on the per-unit transfer cost.
const (
	volumeTier1Qty      = 5000.0
	volumeTier2Qty      = 10000.0
	volumeTier1Discount = 0.9
	volumeTier2Discount = 0.8
)

// Product-level rebalancing triggers: the most stocked warehouse must hold
// more than twice the least stocked one's quantity, and more than the floor,
// before a suggestion is emitted. A quarter of the gap moves.
const (
	productImbalanceFactor = 2.0
	productSurplusFloor    = 10000.0
	productGapFraction     = 4.0
)

// TransferService proposes inventory movements from over-utilized to
// under-utilized warehouses under capacity, distance-cost, and minimum-size
// constraints.
type TransferService interface {
	Recommend(analyses map[string]*models.CapacityAnalysis) *models.OptimizationResult

	// RecommendByProduct examines each product's final simulated position
	// across the network and suggests rebalancing moves where one warehouse
	// holds a disproportionate share.
	RecommendByProduct(result *models.ForecastResult) map[string]*models.ProductRecommendation
}

type transferService struct {
	assumptions *config.Assumptions
}

func NewTransferService(assumptions *config.Assumptions) TransferService {
	return &transferService{assumptions: assumptions}
}

func (t *transferService) Recommend(analyses map[string]*models.CapacityAnalysis) *models.OptimizationResult {
	ranked := rankByFinalUtilization(analyses)

	topN := maxTransferCandidates
	if topN > len(ranked) {
		topN = len(ranked)
	}

	var sources []string
	for _, name := range ranked[:topN] {
		if analyses[name].Utilization.Final > sourceUtilThreshold {
			sources = append(sources, name)
		}
	}
	var destinations []string
	for _, name := range ranked[len(ranked)-topN:] {
		if analyses[name].Utilization.Final < destUtilThreshold {
			destinations = append(destinations, name)
		}
	}

	result := &models.OptimizationResult{
		HighUtilization: sources,
		LowUtilization:  destinations,
	}

	for _, source := range sources {
		for _, dest := range destinations {
			if source == dest {
				continue
			}
			if rec := t.calculateTransfer(analyses[source], analyses[dest]); rec != nil {
				result.Recommendations = append(result.Recommendations, *rec)
			}
		}
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].Impact.UtilizationImprovement > result.Recommendations[j].Impact.UtilizationImprovement
	})
	return result
}

func (t *transferService) RecommendByProduct(result *models.ForecastResult) map[string]*models.ProductRecommendation {
	recommendations := make(map[string]*models.ProductRecommendation, len(t.assumptions.Products))

	for _, product := range t.assumptions.Products {
		rec := &models.ProductRecommendation{
			WarehouseLevels: make(map[string]models.ProductWarehouseLevel),
		}

		for _, warehouse := range t.assumptions.WarehouseNames() {
			wf, ok := result.Warehouses[warehouse]
			if !ok {
				continue
			}
			ledger, ok := wf.Products[product]
			if !ok || len(ledger.Ledger) == 0 {
				continue
			}
			final := ledger.Ledger[len(ledger.Ledger)-1]
			rec.WarehouseLevels[warehouse] = models.ProductWarehouseLevel{
				CurrentInventory:        final.EndingPosition,
				UtilizationContribution: final.CapacityUtilization,
				MonthlyNetFlow:          final.NetFlow,
			}
		}

		if len(rec.WarehouseLevels) > 1 {
			high, low := extremeLevels(rec.WarehouseLevels)
			highInv := rec.WarehouseLevels[high].CurrentInventory
			lowInv := rec.WarehouseLevels[low].CurrentInventory
			if highInv > lowInv*productImbalanceFactor && highInv > productSurplusFloor {
				rec.TransferSuggestions = append(rec.TransferSuggestions, models.ProductTransferSuggestion{
					From:     high,
					To:       low,
					Quantity: math.Floor((highInv - lowInv) / productGapFraction),
					Reason:   fmt.Sprintf("Balance %s inventory distribution", product),
					Impact:   fmt.Sprintf("Reduces %s %s surplus", high, product),
				})
			}
		}

		recommendations[product] = rec
	}
	return recommendations
}

// extremeLevels returns the most and least stocked warehouses for a product,
// name ascending on ties.
func extremeLevels(levels map[string]models.ProductWarehouseLevel) (high, low string) {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := levels[names[i]].CurrentInventory, levels[names[j]].CurrentInventory
		if li != lj {
			return li > lj
		}
		return names[i] < names[j]
	})
	return names[0], names[len(names)-1]
}

// calculateTransfer sizes the optimal movement for one source→destination
// pair, or returns nil when no economically viable transfer exists.
func (t *transferService) calculateTransfer(source, dest *models.CapacityAnalysis) *models.TransferRecommendation {
	rules := t.assumptions.BusinessRules
	targetUtil := rules.TargetUtilizationPct()

	sourceUtil := source.Utilization.Final
	destUtil := dest.Utilization.Final
	sourceInv := source.WarehouseInfo.CurrentInventory
	destInv := dest.WarehouseInfo.CurrentInventory
	sourceCap := source.WarehouseInfo.MaxCapacity
	destCap := dest.WarehouseInfo.MaxCapacity

	// Bring the source down toward target and the destination up toward it,
	// without exceeding any hard bound.
	sourceExcess := (sourceUtil - targetUtil) / 100 * sourceCap
	destDeficit := (targetUtil - destUtil) / 100 * destCap

	maxTransferable := math.Min(
		math.Min(sourceInv*rules.TransferRecommendations.MaxTransferPercentage, destCap-destInv),
		math.Min(sourceExcess, destDeficit),
	)
	quantity := math.Max(0, math.Min(maxTransferable, sourceExcess*excessTransferFraction))
	if quantity < rules.TransferRecommendations.MinimumTransferSize {
		// Too small to be worth executing.
		return nil
	}

	newSourceInv := sourceInv - quantity
	newDestInv := destInv + quantity
	newSourceUtil := newSourceInv / sourceCap * 100
	newDestUtil := newDestInv / destCap * 100

	improvement := (sourceUtil - newSourceUtil) + (newDestUtil - destUtil)

	distance := t.assumptions.DistanceFactor(source.WarehouseInfo.Name, dest.WarehouseInfo.Name)
	discount := volumeDiscount(quantity)
	transferCost := quantity * rules.TransferRecommendations.BaseCostPerUnit * distance * discount
	storageSavings := (sourceUtil - newSourceUtil) / 100 * sourceCap * rules.TransferRecommendations.StorageCostPerUnit
	netBenefit := storageSavings - transferCost

	var roi float64
	if transferCost > 0 {
		roi = netBenefit / transferCost * 100
	}

	priority := models.PriorityLow
	switch {
	case improvement > 10:
		priority = models.PriorityHigh
	case improvement > 5:
		priority = models.PriorityMedium
	}
	urgency := models.UrgencyPlanned
	if sourceUtil > immediateUrgencyUtil {
		urgency = models.UrgencyImmediate
	}

	return &models.TransferRecommendation{
		TransferID:  fmt.Sprintf("%s_to_%s", source.WarehouseInfo.Name, dest.WarehouseInfo.Name),
		Source:      source.WarehouseInfo.Name,
		Destination: dest.WarehouseInfo.Name,
		Quantity:    quantity,
		Current: models.TransferState{
			SourceUtilization: sourceUtil,
			DestUtilization:   destUtil,
			SourceInventory:   sourceInv,
			DestInventory:     destInv,
		},
		Projected: models.TransferState{
			SourceUtilization: newSourceUtil,
			DestUtilization:   newDestUtil,
			SourceInventory:   newSourceInv,
			DestInventory:     newDestInv,
		},
		Impact: models.TransferImpact{
			UtilizationImprovement: improvement,
			RiskReduction:          riskReduction(source.Risk.Score, newSourceUtil),
			SourceUtilChange:       newSourceUtil - sourceUtil,
			DestUtilChange:         newDestUtil - destUtil,
		},
		Cost: models.TransferCost{
			TransferCost:   transferCost,
			StorageSavings: storageSavings,
			NetBenefit:     netBenefit,
			ROIPercentage:  roi,
			DistanceFactor: distance,
			VolumeDiscount: discount,
		},
		Priority: priority,
		Urgency:  urgency,
	}
}

// riskReduction re-scores only the average-utilization component at the
// post-transfer level and reports how many points the transfer removes.
func riskReduction(oldScore int, newUtil float64) int {
	newScore := 0
	switch {
	case newUtil > 80:
		newScore = 3
	case newUtil > 60:
		newScore = 1
	}
	if reduction := oldScore - newScore; reduction > 0 {
		return reduction
	}
	return 0
}

func volumeDiscount(quantity float64) float64 {
	switch {
	case quantity >= volumeTier2Qty:
		return volumeTier2Discount
	case quantity >= volumeTier1Qty:
		return volumeTier1Discount
	default:
		return 1.0
	}
}

// rankByFinalUtilization orders warehouse names by final utilization
// descending, name ascending on ties, so candidate selection is
// deterministic.
func rankByFinalUtilization(analyses map[string]*models.CapacityAnalysis) []string {
	names := make([]string, 0, len(analyses))
	for name := range analyses {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ui, uj := analyses[names[i]].Utilization.Final, analyses[names[j]].Utilization.Final
		if ui != uj {
			return ui > uj
		}
		return names[i] < names[j]
	})
	return names
}
