package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Sankalvax/opt/internal/models"
)

// ErrInvalidConfig marks configuration problems that make a run impossible:
// the simulator cannot establish capacity denominators or transfer bounds
// without them. Callers should treat these as fatal, unlike the data-quality
// fallbacks in the forecast package.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultDistanceFactor applies to warehouse pairs missing from the distance
// table.
const DefaultDistanceFactor = 2.0

// CapacityRules holds the optimal utilization band as fractions of capacity.
type CapacityRules struct {
	OptimalRange [2]float64 `json:"optimal_range"`
}

// TransferRules bound and price transfer recommendations.
type TransferRules struct {
	MaxTransferPercentage float64 `json:"max_transfer_percentage"`
	MinimumTransferSize   float64 `json:"minimum_transfer_size"`
	BaseCostPerUnit       float64 `json:"base_cost_per_unit"`
	StorageCostPerUnit    float64 `json:"storage_cost_per_unit"`
}

// BusinessRules is the rule set consumed by the transfer optimizer.
type BusinessRules struct {
	CapacityUtilization     CapacityRules `json:"capacity_utilization"`
	TransferRecommendations TransferRules `json:"transfer_recommendations"`
}

// TargetUtilizationPct is the optimal range's upper bound as a percentage,
// the level the optimizer balances warehouses toward.
func (b BusinessRules) TargetUtilizationPct() float64 {
	return b.CapacityUtilization.OptimalRange[1] * 100
}

// Assumptions is the domain configuration for a simulation run: warehouse
// capacities, the fixed product enumeration, business rules, and the static
// symmetric distance table ("A:B" keys, alphabetical order).
type Assumptions struct {
	Warehouses      map[string]models.WarehouseConfig `json:"warehouse_config"`
	Products        []string                          `json:"products"`
	BusinessRules   BusinessRules                     `json:"business_rules"`
	DistanceFactors map[string]float64                `json:"distance_factors"`
}

// LoadAssumptions reads and validates the assumptions JSON file.
func LoadAssumptions(path string) (*Assumptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assumptions file: %w", err)
	}
	a := &Assumptions{}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("failed to parse assumptions file: %w", err)
	}
	a.applyDefaults()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Assumptions) applyDefaults() {
	rules := &a.BusinessRules
	if rules.CapacityUtilization.OptimalRange == [2]float64{} {
		rules.CapacityUtilization.OptimalRange = [2]float64{0.3, 0.8}
	}
	if rules.TransferRecommendations.MaxTransferPercentage == 0 {
		rules.TransferRecommendations.MaxTransferPercentage = 0.5
	}
	if rules.TransferRecommendations.MinimumTransferSize == 0 {
		rules.TransferRecommendations.MinimumTransferSize = 5000
	}
	if rules.TransferRecommendations.BaseCostPerUnit == 0 {
		rules.TransferRecommendations.BaseCostPerUnit = 0.10
	}
	if rules.TransferRecommendations.StorageCostPerUnit == 0 {
		rules.TransferRecommendations.StorageCostPerUnit = 0.05
	}
	for name, wh := range a.Warehouses {
		if wh.Name == "" {
			wh.Name = name
			a.Warehouses[name] = wh
		}
	}
}

// Validate enforces the invariants the engine depends on.
func (a *Assumptions) Validate() error {
	if len(a.Warehouses) == 0 {
		return fmt.Errorf("%w: no warehouses configured", ErrInvalidConfig)
	}
	if len(a.Products) == 0 {
		return fmt.Errorf("%w: no product lines configured", ErrInvalidConfig)
	}
	for name, wh := range a.Warehouses {
		if wh.Capacity <= 0 {
			return fmt.Errorf("%w: warehouse %q capacity must be positive", ErrInvalidConfig, name)
		}
	}
	r := a.BusinessRules
	low, high := r.CapacityUtilization.OptimalRange[0], r.CapacityUtilization.OptimalRange[1]
	if low < 0 || high <= low || high > 1 {
		return fmt.Errorf("%w: optimal utilization range [%v, %v] out of order", ErrInvalidConfig, low, high)
	}
	if pct := r.TransferRecommendations.MaxTransferPercentage; pct <= 0 || pct > 1 {
		return fmt.Errorf("%w: max transfer percentage %v must be in (0, 1]", ErrInvalidConfig, pct)
	}
	if r.TransferRecommendations.MinimumTransferSize < 0 {
		return fmt.Errorf("%w: minimum transfer size cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// WarehouseNames returns the configured warehouses in deterministic order.
func (a *Assumptions) WarehouseNames() []string {
	names := make([]string, 0, len(a.Warehouses))
	for name := range a.Warehouses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DistanceFactor looks up the symmetric distance factor for a warehouse
// pair. Unknown pairs fall back to DefaultDistanceFactor.
func (a *Assumptions) DistanceFactor(from, to string) float64 {
	if factor, ok := a.DistanceFactors[pairKey(from, to)]; ok {
		return factor
	}
	return DefaultDistanceFactor
}

func pairKey(from, to string) string {
	if strings.Compare(from, to) > 0 {
		from, to = to, from
	}
	return from + ":" + to
}
