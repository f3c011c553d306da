package models

// WarehouseConfig describes a warehouse's static attributes for a run.
// Capacity is the maximum number of storable units; configs are immutable
// once a run starts.
type WarehouseConfig struct {
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
	Region   string  `json:"region,omitempty"`
}

// WarehouseInfo is the current-state snapshot carried on a capacity analysis.
type WarehouseInfo struct {
	Name                 string  `json:"name"`
	MaxCapacity          float64 `json:"max_capacity"`
	CurrentInventory     float64 `json:"current_inventory"`
	AvailableCapacity    float64 `json:"available_capacity"`
	AvailableCapacityPct float64 `json:"available_capacity_pct"`
}

// StartingInventory maps warehouse -> product -> on-hand quantity. It is the
// read-only input snapshot a simulation run starts from.
type StartingInventory map[string]map[string]float64

// Clone returns an independent copy so a run can roll inventory forward
// without touching the caller's snapshot.
func (s StartingInventory) Clone() StartingInventory {
	out := make(StartingInventory, len(s))
	for warehouse, products := range s {
		cp := make(map[string]float64, len(products))
		for product, qty := range products {
			cp[product] = qty
		}
		out[warehouse] = cp
	}
	return out
}

// Total sums all product quantities held at one warehouse.
func (s StartingInventory) Total(warehouse string) float64 {
	var total float64
	for _, qty := range s[warehouse] {
		total += qty
	}
	return total
}
