package engine

import (
	"sort"

	"eve-hauler/internal/esi"
)

// MatchBooks pairs the acquisition-side partition against the disposal-side
// partition per item type. Only types present on both sides can form a
// candidate; one-sided types are silently dropped. For each common type the
// acquisition price is the minimum seen and the disposal price the maximum;
// ties keep the first order encountered, whose remaining volume feeds the
// supply/demand caps.
func MatchBooks(acquisition, disposal []esi.MarketOrder) []Match {
	type best struct {
		price  float64
		remain int32
	}

	// Single pass: cheapest acquisition order per type.
	bestAcq := make(map[int32]best)
	for _, o := range acquisition {
		if cur, ok := bestAcq[o.TypeID]; !ok || o.Price < cur.price {
			bestAcq[o.TypeID] = best{o.Price, o.VolumeRemain}
		}
	}

	// Single pass: highest disposal order per type.
	bestDisp := make(map[int32]best)
	for _, o := range disposal {
		if cur, ok := bestDisp[o.TypeID]; !ok || o.Price > cur.price {
			bestDisp[o.TypeID] = best{o.Price, o.VolumeRemain}
		}
	}

	var matches []Match
	for typeID, acq := range bestAcq {
		disp, ok := bestDisp[typeID]
		if !ok {
			continue
		}
		matches = append(matches, Match{
			TypeID:       typeID,
			AcquirePrice: acq.price,
			Supply:       acq.remain,
			DisposePrice: disp.price,
			Demand:       disp.remain,
		})
	}

	// Map iteration order is random; sort so identical inputs always
	// produce identical output.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].TypeID < matches[j].TypeID
	})
	return matches
}
