package engine

import (
	"eve-hauler/internal/esi"
)

// PartitionForLocation extracts the orders usable at a location: only the
// side selected by the location's trade preference survives, and when a
// station is set, only orders resting at that station. An empty partition
// is valid and simply yields no opportunities downstream.
func PartitionForLocation(orders []esi.MarketOrder, loc Location) []esi.MarketOrder {
	wantBuy := loc.Preference == "buy"

	var out []esi.MarketOrder
	for _, o := range orders {
		if o.IsBuyOrder != wantBuy {
			continue
		}
		if loc.StationID != 0 && o.LocationID != loc.StationID {
			continue
		}
		out = append(out, o)
	}
	return out
}
