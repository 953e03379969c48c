package engine

import (
	"math"
	"testing"
)

func TestRiskWeightsSumToOne(t *testing.T) {
	sum := riskWeightVolume + riskWeightMargin + riskWeightCapital + riskWeightSpread
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("risk factor weights sum to %v, want 1.0", sum)
	}
}

func TestVolumeRisk_Tiers(t *testing.T) {
	cases := []struct {
		qty  int32
		want float64
	}{
		{1, 100},
		{5, 70},
		{6, 40},
		{20, 40},
		{21, 20},
		{50, 20},
		{51, 0},
	}
	for _, tc := range cases {
		if got, _ := volumeRisk(tc.qty); got != tc.want {
			t.Errorf("volumeRisk(%d) = %v, want %v", tc.qty, got, tc.want)
		}
	}
}

func TestMarginRisk_Tiers(t *testing.T) {
	cases := []struct {
		margin float64
		want   float64
	}{
		{60, 80},  // too good to be true
		{45, 50},  // unusually high
		{2, 60},   // razor thin
		{4, 30},   // thin
		{20, 0},   // sweet spot
		{15, 0},   // sweet spot lower edge
		{30, 0},   // sweet spot upper edge
		{10, 10},  // outside sweet spot, unremarkable
		{35, 10},
	}
	for _, tc := range cases {
		if got, _ := marginRisk(tc.margin); got != tc.want {
			t.Errorf("marginRisk(%v) = %v, want %v", tc.margin, got, tc.want)
		}
	}
}

func TestCapitalRisk_TiersAndQuantityCap(t *testing.T) {
	cases := []struct {
		price float64
		qty   int32
		want  float64
	}{
		{200e6, 100, 90}, // 20B exposure
		{50e6, 100, 70},  // 5B
		{5e6, 100, 40},   // 500M
		{500e3, 100, 15}, // 50M
		{10e3, 100, 0},   // 1M
	}
	for _, tc := range cases {
		got, _, _ := capitalRisk(tc.price, tc.qty)
		if got != tc.want {
			t.Errorf("capitalRisk(%v, %d) = %v, want %v", tc.price, tc.qty, got, tc.want)
		}
	}

	// Exposure is computed on at most 100 units. A million-unit mineral
	// stack must not register as an extreme capital commitment.
	got, exposure, _ := capitalRisk(5.50, 1_000_000)
	if exposure != 550 {
		t.Errorf("capped exposure = %v, want 550", exposure)
	}
	if got != 0 {
		t.Errorf("capitalRisk for capped mineral stack = %v, want 0", got)
	}
}

func TestSpreadRisk_Tiers(t *testing.T) {
	cases := []struct {
		spread float64
		want   float64
	}{
		{250, 95},
		{150, 80},
		{75, 50},
		{30, 25},
		{10, 0},
	}
	for _, tc := range cases {
		if got, _ := spreadRisk(tc.spread); got != tc.want {
			t.Errorf("spreadRisk(%v) = %v, want %v", tc.spread, got, tc.want)
		}
	}
}

func TestRiskLevel_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "low"},
		{25, "low"},
		{25.1, "medium"},
		{50, "medium"},
		{50.1, "high"},
		{75, "high"},
		{75.1, "extreme"},
		{100, "extreme"},
	}
	for _, tc := range cases {
		if got := riskLevel(tc.score); got != tc.want {
			t.Errorf("riskLevel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

// A single unit of a 2B ISK item at a 400% margin: every factor lands in a
// bad tier and the assessment comes out extreme.
func TestAssessRisk_ScamProfile(t *testing.T) {
	o := &Opportunity{
		TypeID:       666,
		AcquirePrice: 2e9,
		DisposePrice: 10e9,
		Quantity:     1,
		Margin:       400,
	}
	r := AssessRisk(o)

	// volume 100×0.35 + margin 80×0.25 + capital 70×0.20 + spread 95×0.20
	want := 100*riskWeightVolume + 80*riskWeightMargin + 70*riskWeightCapital + 95*riskWeightSpread
	if math.Abs(r.Score-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", r.Score, want)
	}
	if r.Level != "extreme" {
		t.Errorf("Level = %q, want extreme", r.Level)
	}
	if len(r.Factors) != 4 {
		t.Fatalf("got %d factors, want 4", len(r.Factors))
	}
}

// A cheap single-unit listing at a 72% margin scores "high" rather than
// extreme, but it is still barred from recommendations by the scam rule
// (see TestRecommendations_ExcludesSingleUnitListings).
func TestAssessRisk_CheapSingleUnitIsAtLeastHigh(t *testing.T) {
	o := &Opportunity{
		TypeID:       667,
		AcquirePrice: 1000,
		DisposePrice: 1720,
		Quantity:     1,
		Margin:       72,
	}
	r := AssessRisk(o)
	// volume 100×0.35 + margin 80×0.25 + capital 0 + spread 50×0.20 = 65
	if math.Abs(r.Score-65) > 1e-9 {
		t.Errorf("Score = %v, want 65", r.Score)
	}
	if r.Level != "high" {
		t.Errorf("Level = %q, want high", r.Level)
	}
}

func TestAssessRisk_HealthyProfile(t *testing.T) {
	o := &Opportunity{
		TypeID:       34,
		AcquirePrice: 100,
		DisposePrice: 120,
		Quantity:     5000,
		Margin:       20,
	}
	r := AssessRisk(o)
	// Healthy depth, sweet-spot margin, 12k ISK exposure, 20% spread: zero
	// on every factor.
	if r.Score != 0 {
		t.Errorf("Score = %v, want 0", r.Score)
	}
	if r.Level != "low" {
		t.Errorf("Level = %q, want low", r.Level)
	}
}

func TestAssessRiskAll_AnnotatesInPlace(t *testing.T) {
	opps := []*Opportunity{
		{TypeID: 1, AcquirePrice: 100, DisposePrice: 120, Quantity: 5000, Margin: 20},
		{TypeID: 2, AcquirePrice: 1000, DisposePrice: 150000, Quantity: 1, Margin: 14900},
	}
	AssessRiskAll(opps)
	if opps[0].Risk.Level != "low" {
		t.Errorf("opps[0] Level = %q, want low", opps[0].Risk.Level)
	}
	if opps[1].Risk.Level != "extreme" {
		t.Errorf("opps[1] Level = %q, want extreme", opps[1].Risk.Level)
	}
}
