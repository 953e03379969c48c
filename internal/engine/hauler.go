package engine

import (
	"fmt"
	"log"
	"sync"

	"eve-hauler/internal/esi"
)

// Hauler orchestrates haul queries: it pulls order books from the market
// snapshot provider, runs the matching/solving/scoring pipeline, and
// resolves display labels. The pipeline itself is pure computation; all
// I/O lives behind the three collaborator interfaces.
type Hauler struct {
	Market   SnapshotProvider
	Items    ItemLookup
	Stations StationNamer
}

// NewHauler creates a Hauler with the given collaborators.
func NewHauler(market SnapshotProvider, items ItemLookup, stations StationNamer) *Hauler {
	return &Hauler{Market: market, Items: items, Stations: stations}
}

// HaulParams holds one haul query: origin, destination, constraints, and
// presentation options.
type HaulParams struct {
	From Location `json:"from"`
	To   Location `json:"to"`
	Constraints
	SortBy     string `json:"sort_by"`
	MaxResults int    `json:"max_results"`
}

// Compute runs the pure pipeline over pre-fetched region order books:
// partition by location, match items across the sides, solve constraints,
// and annotate scores and risk. It fails fast only on malformed input;
// empty books and filtered-out candidates yield an empty (valid) result.
func Compute(originBook, destBook []esi.MarketOrder, from, to Location, c Constraints, items ItemLookup) ([]*Opportunity, error) {
	if err := from.Validate("from"); err != nil {
		return nil, err
	}
	if err := to.Validate("to"); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateOrders("origin orders", originBook); err != nil {
		return nil, err
	}
	if err := ValidateOrders("destination orders", destBook); err != nil {
		return nil, err
	}

	acquisition := PartitionForLocation(originBook, from)
	disposal := PartitionForLocation(destBook, to)

	matches := MatchBooks(acquisition, disposal)
	opps := SolveAll(matches, items, c)

	for _, o := range opps {
		o.From = from
		o.To = to
	}

	ScoreAll(opps)
	AssessRiskAll(opps)
	return opps, nil
}

// Haul executes one origin→destination query end to end and returns the
// assembled output records.
func (h *Hauler) Haul(p HaulParams) ([]Record, error) {
	if err := p.From.Validate("from"); err != nil {
		return nil, err
	}
	if err := p.To.Validate("to"); err != nil {
		return nil, err
	}
	if err := p.Constraints.Validate(); err != nil {
		return nil, err
	}

	originBook, destBook := h.fetchBooks(p.From, p.To)

	opps, err := Compute(originBook, destBook, p.From, p.To, p.Constraints, h.Items)
	if err != nil {
		return nil, err
	}
	h.labelAll(opps)

	return Assemble(opps, p.SortBy, h.effectiveLimit(p)), nil
}

// HaulMulti runs one origin against several destinations (the "nearby
// regions" query) and merges the per-destination results into a single
// ranked list.
func (h *Hauler) HaulMulti(from Location, dests []Location, p HaulParams) ([]Record, error) {
	if err := from.Validate("from"); err != nil {
		return nil, err
	}
	if len(dests) == 0 {
		return nil, &ValidationError{Field: "to", Reason: "at least one destination region required"}
	}
	for _, d := range dests {
		if err := d.Validate("to"); err != nil {
			return nil, err
		}
	}
	if err := p.Constraints.Validate(); err != nil {
		return nil, err
	}

	originBook := h.fetchBook(from)

	var all []*Opportunity
	for _, dest := range dests {
		destBook := h.fetchBook(dest)
		opps, err := Compute(originBook, destBook, from, dest, p.Constraints, h.Items)
		if err != nil {
			return nil, err
		}
		all = append(all, opps...)
	}

	// Scores were normalized per destination; renormalize across the
	// merged set so the ranking is consistent.
	ScoreAll(all)
	h.labelAll(all)

	p.From = from
	p.To = Location{RegionID: dests[0].RegionID} // region-wide for limit purposes
	return Assemble(all, p.SortBy, h.effectiveLimit(p)), nil
}

// fetchBooks pulls both region books concurrently, the origin side and the
// destination side. A failed fetch degrades to an empty book; partial
// data still yields a best-effort result set.
func (h *Hauler) fetchBooks(from, to Location) ([]esi.MarketOrder, []esi.MarketOrder) {
	var originBook, destBook []esi.MarketOrder
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		originBook = h.fetchBook(from)
	}()
	go func() {
		defer wg.Done()
		destBook = h.fetchBook(to)
	}()
	wg.Wait()
	return originBook, destBook
}

func (h *Hauler) fetchBook(loc Location) []esi.MarketOrder {
	orders, err := h.Market.RegionOrders(loc.RegionID, loc.Preference)
	if err != nil {
		log.Printf("[HAUL] region %d %s orders unavailable: %v", loc.RegionID, loc.Preference, err)
		return nil
	}
	return orders
}

// labelAll fills the human-readable origin/destination labels.
func (h *Hauler) labelAll(opps []*Opportunity) {
	for _, o := range opps {
		o.FromName = h.label(o.From)
		o.ToName = h.label(o.To)
	}
}

func (h *Hauler) label(loc Location) string {
	if loc.StationID != 0 && h.Stations != nil {
		return h.Stations.StationName(loc.StationID)
	}
	if loc.Name != "" {
		return loc.Name
	}
	return fmt.Sprintf("Region #%d", loc.RegionID)
}

// effectiveLimit resolves the result cap: the caller's limit, defaulted,
// and clamped for region-wide queries.
func (h *Hauler) effectiveLimit(p HaulParams) int {
	limit := p.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	regionWide := p.From.StationID == 0 || p.To.StationID == 0
	if regionWide && limit > RegionMaxResults {
		limit = RegionMaxResults
	}
	return limit
}
