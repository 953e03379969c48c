package engine

import (
	"fmt"

	"eve-hauler/internal/esi"
)

// Location describes one end of a haul: a region, optionally narrowed to a
// single station, with a trade-side preference. Preference "sell" means we
// trade against resting sell orders; "buy" means we fill resting buy orders.
type Location struct {
	RegionID   int32  `json:"region_id"`
	StationID  int64  `json:"station_id"` // 0 = whole region
	Preference string `json:"preference"` // "buy" or "sell"
	Name       string `json:"name"`       // optional display label
}

// Key renders the location in the wire format other components rely on:
// "<regionID>:<stationID-or-0>".
func (l Location) Key() string {
	return fmt.Sprintf("%d:%d", l.RegionID, l.StationID)
}

// Constraints are the user-supplied limits applied by the solver.
// Rates are decimals (0.08 = 8%), not percentages.
type Constraints struct {
	MinProfit     float64 `json:"min_profit"`      // ISK
	MinROI        float64 `json:"min_roi"`         // percent
	MaxBudget     float64 `json:"max_budget"`      // ISK
	MaxCargo      float64 `json:"max_cargo"`       // m³
	SalesTaxRate  float64 `json:"sales_tax_rate"`  // decimal
	BrokerFeeRate float64 `json:"broker_fee_rate"` // decimal, default 0
}

// Match pairs the best acquisition and disposal order for one item type.
type Match struct {
	TypeID       int32
	AcquirePrice float64 // min price among acquisition-side orders
	Supply       int32   // remaining volume of that acquisition order
	DisposePrice float64 // max price among disposal-side orders
	Demand       int32   // remaining volume of that disposal order
}

// Opportunity is one executable trade between origin and destination under
// the current constraints. Built once by the solver, annotated by the
// scoring engine, immutable thereafter.
type Opportunity struct {
	TypeID       int32
	TypeName     string
	UnitVolume   float64 // packaged m³ per unit
	AcquirePrice float64
	DisposePrice float64
	Quantity     int32
	GrossRevenue float64
	Tax          float64
	Brokerage    float64
	NetProfit    float64
	ROI          float64 // percent
	Margin       float64 // (dispose-acquire)/acquire, percent

	From     Location
	To       Location
	FromName string
	ToName   string

	Score CompositeScore
	Risk  RiskAssessment
}

// Record is the canonical external output shape. The field names are the
// contract consumed by tables, exports, and alert formatting; callers never
// see internal naming.
type Record struct {
	ItemID        int32   `json:"Item ID"`
	Item          string  `json:"Item"`
	From          string  `json:"From"`
	TakeTo        string  `json:"Take To"`
	Quantity      int32   `json:"Quantity"`
	BuyPrice      float64 `json:"Buy Price"`       // 2dp
	SellPrice     float64 `json:"Sell Price"`      // 2dp
	Profit        int64   `json:"Profit"`          // integer ISK
	ROI           float64 `json:"ROI"`             // 1dp percent
	ProfitPerJump int64   `json:"Profit per Jump"` // equals Profit; route math is external
	Jumps         string  `json:"Jumps"`           // "N/A" unless supplied externally
	FromLocation  string  `json:"fromLocation"`    // "<regionID>:<stationID-or-0>"
	ToLocation    string  `json:"toLocation"`

	Score     float64 `json:"Score"`
	RiskScore float64 `json:"Risk Score"`
	RiskLevel string  `json:"Risk Level"`
}

// ItemLookup resolves item display names and packaged volumes.
// Implementations never fail; unknown types degrade to safe defaults.
type ItemLookup interface {
	ItemInfo(typeID int32) esi.TypeInfo
}

// SnapshotProvider returns all resting orders of one side for a region.
// Pagination and retries are the provider's concern.
type SnapshotProvider interface {
	RegionOrders(regionID int32, side string) ([]esi.MarketOrder, error)
}

// StationNamer resolves human-readable station names, falling back to a
// placeholder on failure.
type StationNamer interface {
	StationName(locationID int64) string
}
