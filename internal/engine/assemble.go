package engine

import (
	"math"
	"sort"
)

const (
	// DefaultMaxResults is returned when the caller does not specify a limit.
	DefaultMaxResults = 100
	// RegionMaxResults caps region-wide queries, which can surface
	// thousands of candidates.
	RegionMaxResults = 500
)

// Sort keys accepted by Assemble. Unknown keys fall back to SortByProfit.
const (
	SortByProfit   = "profit"
	SortByROI      = "roi"
	SortByScore    = "score"
	SortByQuantity = "quantity"
	SortByRisk     = "risk"
)

// sortLess returns the comparison for the given key, descending on the key
// with TypeID ascending as the tiebreak so output is order-stable.
func sortLess(key string) func(a, b *Opportunity) bool {
	value := func(o *Opportunity) float64 {
		switch key {
		case SortByROI:
			return o.ROI
		case SortByScore:
			return o.Score.FinalScore
		case SortByQuantity:
			return float64(o.Quantity)
		case SortByRisk:
			return -o.Risk.Score // least risky first
		default:
			return o.NetProfit
		}
	}
	return func(a, b *Opportunity) bool {
		va, vb := value(a), value(b)
		if va != vb {
			return va > vb
		}
		return a.TypeID < b.TypeID
	}
}

// Assemble sorts the surviving opportunities, truncates to the limit, and
// maps them onto the canonical output record shape. This is the only place
// internal field names cross into the external contract.
func Assemble(opps []*Opportunity, sortBy string, limit int) []Record {
	sorted := make([]*Opportunity, len(opps))
	copy(sorted, opps)
	less := sortLess(sortBy)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	records := make([]Record, 0, len(sorted))
	for _, o := range sorted {
		profit := int64(math.Round(o.NetProfit))
		records = append(records, Record{
			ItemID:        o.TypeID,
			Item:          o.TypeName,
			From:          o.FromName,
			TakeTo:        o.ToName,
			Quantity:      o.Quantity,
			BuyPrice:      round2(o.AcquirePrice),
			SellPrice:     round2(o.DisposePrice),
			Profit:        profit,
			ROI:           round1(o.ROI),
			ProfitPerJump: profit, // jump-distance weighting is supplied externally, if ever
			Jumps:         "N/A",
			FromLocation:  o.From.Key(),
			ToLocation:    o.To.Key(),
			Score:         o.Score.FinalScore,
			RiskScore:     o.Risk.Score,
			RiskLevel:     o.Risk.Level,
		})
	}
	return records
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
