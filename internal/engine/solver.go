package engine

import (
	"math"

	"eve-hauler/internal/esi"
)

// Solve computes the maximum tradeable quantity and resulting financials
// for one matched item, applying every threshold filter. Returns false when
// the candidate is filtered out, a business-rule exclusion rather than an error.
//
// Quantity is the minimum of four independent caps: budget, cargo volume,
// remaining supply on the acquisition side, and remaining demand on the
// disposal side.
//
// Net profit deducts sales tax and the broker fee from gross revenue:
//
//	net = gross - acquireCost - gross*taxRate - gross*brokerRate
//
// The broker rate defaults to 0, which reproduces the tax-only behavior
// older call sites relied on.
func Solve(m Match, info esi.TypeInfo, c Constraints) (*Opportunity, bool) {
	if m.DisposePrice <= m.AcquirePrice {
		return nil, false
	}

	unitVolume := info.Volume
	if unitVolume <= 0 {
		unitVolume = esi.DefaultItemVolume
	}

	budgetCap := capInt32(math.Floor(c.MaxBudget / m.AcquirePrice))
	cargoCap := capInt32(math.Floor(c.MaxCargo / unitVolume))

	qty := budgetCap
	if cargoCap < qty {
		qty = cargoCap
	}
	if m.Supply < qty {
		qty = m.Supply
	}
	if m.Demand < qty {
		qty = m.Demand
	}
	if qty <= 0 {
		return nil, false
	}

	gross := m.DisposePrice * float64(qty)
	tax := gross * c.SalesTaxRate
	brokerage := gross * c.BrokerFeeRate
	cost := m.AcquirePrice * float64(qty)
	net := gross - cost - tax - brokerage
	if net < c.MinProfit {
		return nil, false
	}

	roi := net / cost * 100
	if roi < c.MinROI {
		return nil, false
	}

	return &Opportunity{
		TypeID:       m.TypeID,
		TypeName:     info.Name,
		UnitVolume:   unitVolume,
		AcquirePrice: m.AcquirePrice,
		DisposePrice: m.DisposePrice,
		Quantity:     qty,
		GrossRevenue: gross,
		Tax:          tax,
		Brokerage:    brokerage,
		NetProfit:    net,
		ROI:          roi,
		Margin:       (m.DisposePrice - m.AcquirePrice) / m.AcquirePrice * 100,
	}, true
}

// SolveAll runs the solver over every match, resolving item metadata
// through the lookup. Lookup failures degrade to default name/volume
// inside the lookup itself, so partial data still yields results.
func SolveAll(matches []Match, items ItemLookup, c Constraints) []*Opportunity {
	var out []*Opportunity
	for _, m := range matches {
		info := items.ItemInfo(m.TypeID)
		if opp, ok := Solve(m, info, c); ok {
			out = append(out, opp)
		}
	}
	return out
}

// capInt32 clamps a float quantity into the int32 range used by order volumes.
func capInt32(f float64) int32 {
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < 0 {
		return 0
	}
	return int32(f)
}
