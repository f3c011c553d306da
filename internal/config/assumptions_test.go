package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sankalvax/opt/internal/models"
)

func writeAssumptions(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assumptions.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestLoadAssumptionsAppliesDefaults(t *testing.T) {
	path := writeAssumptions(t, `{
		"warehouse_config": {
			"Atlanta": {"capacity": 120000, "region": "Southeast"},
			"Chicago": {"capacity": 150000}
		},
		"products": ["Footwear", "Apparel"]
	}`)

	a, err := LoadAssumptions(path)
	require.NoError(t, err)

	assert.Equal(t, [2]float64{0.3, 0.8}, a.BusinessRules.CapacityUtilization.OptimalRange)
	assert.Equal(t, 0.5, a.BusinessRules.TransferRecommendations.MaxTransferPercentage)
	assert.Equal(t, 5000.0, a.BusinessRules.TransferRecommendations.MinimumTransferSize)
	assert.Equal(t, 0.10, a.BusinessRules.TransferRecommendations.BaseCostPerUnit)
	assert.Equal(t, 0.05, a.BusinessRules.TransferRecommendations.StorageCostPerUnit)

	// Warehouse names are backfilled from their map keys.
	assert.Equal(t, "Atlanta", a.Warehouses["Atlanta"].Name)
	assert.Equal(t, "Chicago", a.Warehouses["Chicago"].Name)
	assert.Equal(t, "Southeast", a.Warehouses["Atlanta"].Region)

	assert.InDelta(t, 80.0, a.BusinessRules.TargetUtilizationPct(), 1e-9)
}

func TestLoadAssumptionsMissingFile(t *testing.T) {
	_, err := LoadAssumptions(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadAssumptionsMalformedJSON(t *testing.T) {
	_, err := LoadAssumptions(writeAssumptions(t, `{"warehouse_config":`))
	assert.Error(t, err)
}

func TestValidateRejectsEmptyNetwork(t *testing.T) {
	_, err := LoadAssumptions(writeAssumptions(t, `{"products": ["Footwear"]}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadAssumptions(writeAssumptions(t, `{
		"warehouse_config": {"Atlanta": {"capacity": 1000}}
	}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsNonPositiveCapacity(t *testing.T) {
	_, err := LoadAssumptions(writeAssumptions(t, `{
		"warehouse_config": {"Atlanta": {"capacity": 0}},
		"products": ["Footwear"]
	}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsBadOptimalRange(t *testing.T) {
	a := &Assumptions{
		Warehouses: map[string]models.WarehouseConfig{"Atlanta": {Name: "Atlanta", Capacity: 1000}},
		Products:   []string{"Footwear"},
	}
	a.BusinessRules.CapacityUtilization.OptimalRange = [2]float64{0.8, 0.3}
	a.BusinessRules.TransferRecommendations.MaxTransferPercentage = 0.5
	assert.ErrorIs(t, a.Validate(), ErrInvalidConfig)

	a.BusinessRules.CapacityUtilization.OptimalRange = [2]float64{0.3, 1.5}
	assert.ErrorIs(t, a.Validate(), ErrInvalidConfig)
}

func TestValidateRejectsBadTransferPercentage(t *testing.T) {
	a := &Assumptions{
		Warehouses: map[string]models.WarehouseConfig{"Atlanta": {Name: "Atlanta", Capacity: 1000}},
		Products:   []string{"Footwear"},
	}
	a.BusinessRules.CapacityUtilization.OptimalRange = [2]float64{0.3, 0.8}
	a.BusinessRules.TransferRecommendations.MaxTransferPercentage = 1.5
	assert.ErrorIs(t, a.Validate(), ErrInvalidConfig)
}

func TestWarehouseNamesSorted(t *testing.T) {
	a := &Assumptions{Warehouses: map[string]models.WarehouseConfig{
		"Nashville": {}, "Atlanta": {}, "Chicago": {},
	}}
	assert.Equal(t, []string{"Atlanta", "Chicago", "Nashville"}, a.WarehouseNames())
}

func TestDistanceFactorSymmetricWithDefault(t *testing.T) {
	a := &Assumptions{DistanceFactors: map[string]float64{"Atlanta:Chicago": 1.5}}

	assert.Equal(t, 1.5, a.DistanceFactor("Atlanta", "Chicago"))
	assert.Equal(t, 1.5, a.DistanceFactor("Chicago", "Atlanta"))
	assert.Equal(t, DefaultDistanceFactor, a.DistanceFactor("Atlanta", "Nashville"))
}
