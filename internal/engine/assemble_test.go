package engine

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func sampleOpps() []*Opportunity {
	return []*Opportunity{
		{TypeID: 1, NetProfit: 100, ROI: 50, Quantity: 10, Score: CompositeScore{FinalScore: 0.2}, Risk: RiskAssessment{Score: 30, Level: "medium"}},
		{TypeID: 2, NetProfit: 300, ROI: 10, Quantity: 30, Score: CompositeScore{FinalScore: 0.9}, Risk: RiskAssessment{Score: 10, Level: "low"}},
		{TypeID: 3, NetProfit: 200, ROI: 80, Quantity: 20, Score: CompositeScore{FinalScore: 0.5}, Risk: RiskAssessment{Score: 70, Level: "high"}},
	}
}

func typeOrder(records []Record) []int32 {
	out := make([]int32, len(records))
	for i, r := range records {
		out[i] = r.ItemID
	}
	return out
}

func TestAssemble_SortKeys(t *testing.T) {
	cases := []struct {
		sortBy string
		want   []int32
	}{
		{SortByProfit, []int32{2, 3, 1}},
		{"", []int32{2, 3, 1}},        // default
		{"bogus", []int32{2, 3, 1}},   // unknown key falls back to profit
		{SortByROI, []int32{3, 1, 2}},
		{SortByScore, []int32{2, 3, 1}},
		{SortByQuantity, []int32{2, 3, 1}},
		{SortByRisk, []int32{2, 1, 3}}, // least risky first
	}
	for _, tc := range cases {
		t.Run("sort="+tc.sortBy, func(t *testing.T) {
			got := typeOrder(Assemble(sampleOpps(), tc.sortBy, 0))
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("order = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestAssemble_TiesBreakByTypeID(t *testing.T) {
	opps := []*Opportunity{
		{TypeID: 9, NetProfit: 100},
		{TypeID: 3, NetProfit: 100},
		{TypeID: 7, NetProfit: 100},
	}
	got := typeOrder(Assemble(opps, SortByProfit, 0))
	want := []int32{3, 7, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAssemble_Truncation(t *testing.T) {
	opps := make([]*Opportunity, 250)
	for i := range opps {
		opps[i] = &Opportunity{TypeID: int32(i + 1), NetProfit: float64(i)}
	}

	if got := len(Assemble(opps, "", 0)); got != DefaultMaxResults {
		t.Errorf("default limit returned %d records, want %d", got, DefaultMaxResults)
	}
	if got := len(Assemble(opps, "", 25)); got != 25 {
		t.Errorf("explicit limit returned %d records, want 25", got)
	}
	if got := len(Assemble(opps, "", 1000)); got != 250 {
		t.Errorf("oversized limit returned %d records, want all 250", got)
	}
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	opps := sampleOpps()
	Assemble(opps, SortByROI, 1)
	if opps[0].TypeID != 1 || opps[1].TypeID != 2 || opps[2].TypeID != 3 {
		t.Error("Assemble reordered the caller's slice")
	}
}

func TestAssemble_RecordMapping(t *testing.T) {
	o := &Opportunity{
		TypeID:       34,
		TypeName:     "Tritanium",
		AcquirePrice: 5.497,
		DisposePrice: 6.354,
		Quantity:     10000,
		NetProfit:    3420.4,
		ROI:          6.2189,
		FromName:     "Jita IV - Moon 4 - Caldari Navy Assembly Plant",
		ToName:       "Amarr VIII (Oris) - Emperor Family Academy",
		From:         Location{RegionID: 10000002, StationID: 60003760},
		To:           Location{RegionID: 10000043},
		Score:        CompositeScore{FinalScore: 0.77},
		Risk:         RiskAssessment{Score: 12.5, Level: "low"},
	}
	rec := Assemble([]*Opportunity{o}, "", 0)[0]

	if rec.ItemID != 34 || rec.Item != "Tritanium" {
		t.Errorf("identity fields wrong: %+v", rec)
	}
	if rec.BuyPrice != 5.5 || rec.SellPrice != 6.35 {
		t.Errorf("prices not rounded to 2dp: buy=%v sell=%v", rec.BuyPrice, rec.SellPrice)
	}
	if rec.Profit != 3420 {
		t.Errorf("Profit = %d, want 3420 (rounded ISK)", rec.Profit)
	}
	if rec.ROI != 6.2 {
		t.Errorf("ROI = %v, want 6.2 (1dp)", rec.ROI)
	}
	if rec.ProfitPerJump != rec.Profit {
		t.Errorf("ProfitPerJump = %d, want Profit %d", rec.ProfitPerJump, rec.Profit)
	}
	if rec.Jumps != "N/A" {
		t.Errorf("Jumps = %q, want N/A", rec.Jumps)
	}
	if rec.FromLocation != "10000002:60003760" {
		t.Errorf("FromLocation = %q", rec.FromLocation)
	}
	if rec.ToLocation != "10000043:0" {
		t.Errorf("ToLocation = %q", rec.ToLocation)
	}
	if rec.RiskLevel != "low" || rec.RiskScore != 12.5 {
		t.Errorf("risk passthrough wrong: %+v", rec)
	}
}

// The JSON field names are the external contract; consumers key on the
// display names verbatim.
func TestRecord_JSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Record{Jumps: "N/A"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, key := range []string{
		`"Item ID"`, `"Item"`, `"From"`, `"Take To"`, `"Quantity"`,
		`"Buy Price"`, `"Sell Price"`, `"Profit"`, `"ROI"`,
		`"Profit per Jump"`, `"Jumps"`, `"fromLocation"`, `"toLocation"`,
	} {
		if !strings.Contains(s, key) {
			t.Errorf("marshaled record missing field %s: %s", key, s)
		}
	}
}

func TestRounding(t *testing.T) {
	if got := round2(5.497); math.Abs(got-5.5) > 1e-9 {
		t.Errorf("round2(5.497) = %v", got)
	}
	if got := round1(6.25); math.Abs(got-6.3) > 1e-9 {
		t.Errorf("round1(6.25) = %v", got)
	}
}
