package engine

import (
	"fmt"
)

// Risk factor weights. They sum to 1.0 across the four factors.
const (
	riskWeightVolume  = 0.35
	riskWeightMargin  = 0.25
	riskWeightCapital = 0.20
	riskWeightSpread  = 0.20
)

// Volume risk tiers (sub-score by tradeable quantity).
const (
	volumeRiskSingle = 100.0 // quantity 0 or 1
	volumeRiskTiny   = 70.0  // <= 5
	volumeRiskSmall  = 40.0  // <= 20
	volumeRiskMedium = 20.0  // <= 50
)

// Margin risk tiers (sub-score by margin percent). Mid-range margins
// (15-30%) are the sweet spot; both extremes are suspicious.
const (
	marginRiskVeryHigh      = 80.0
	marginRiskHigh          = 50.0
	marginRiskRazorThin     = 60.0
	marginRiskThin          = 30.0
	marginRiskBaseline      = 10.0
	marginVeryHighThreshold = 50.0
	marginHighThreshold     = 40.0
	marginRazorThreshold    = 3.0
	marginThinThreshold     = 5.0
	marginSweetSpotLow      = 15.0
	marginSweetSpotHigh     = 30.0
)

// Capital risk tiers (sub-score by ISK at risk, quantity capped at 100).
const (
	capitalRiskExtreme   = 90.0
	capitalRiskHigh      = 70.0
	capitalRiskModerate  = 40.0
	capitalRiskLow       = 15.0
	capitalExtremeISK    = 10e9
	capitalHighISK       = 1e9
	capitalModerateISK   = 100e6
	capitalLowISK        = 10e6
	capitalQuantityLimit = 100
)

// Spread risk tiers (sub-score by price spread percent).
const (
	spreadRiskExtreme   = 95.0
	spreadRiskVeryHigh  = 80.0
	spreadRiskHigh      = 50.0
	spreadRiskElevated  = 25.0
	spreadExtremePct    = 200.0
	spreadVeryHighPct   = 100.0
	spreadHighPct       = 50.0
	spreadElevatedPct   = 25.0
)

// Overall risk level bands.
const (
	riskLevelLowMax    = 25.0
	riskLevelMediumMax = 50.0
	riskLevelHighMax   = 75.0
)

// RiskFactor is one named contributor to an opportunity's risk score.
type RiskFactor struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`  // 0-100
	Weight float64 `json:"weight"` // fixed per factor type
	Reason string  `json:"reason"`
	Value  string  `json:"value"` // display value
}

// RiskAssessment is the independent 0-100 cautionary metric shown next to
// an opportunity. It does not feed the composite ranking score.
type RiskAssessment struct {
	Score   float64      `json:"score"`
	Level   string       `json:"level"` // low | medium | high | extreme
	Factors []RiskFactor `json:"factors"`
}

func volumeRisk(qty int32) (float64, string) {
	switch {
	case qty <= 1:
		return volumeRiskSingle, "single-unit listing, classic scam pattern"
	case qty <= 5:
		return volumeRiskTiny, "very thin book, fills are unlikely"
	case qty <= 20:
		return volumeRiskSmall, "thin book"
	case qty <= 50:
		return volumeRiskMedium, "modest depth"
	default:
		return 0, "healthy depth"
	}
}

func marginRisk(marginPct float64) (float64, string) {
	switch {
	case marginPct > marginVeryHighThreshold:
		return marginRiskVeryHigh, "margin too good to be true"
	case marginPct > marginHighThreshold:
		return marginRiskHigh, "unusually high margin"
	case marginPct < marginRazorThreshold:
		return marginRiskRazorThin, "margin vanishes with any price movement"
	case marginPct < marginThinThreshold:
		return marginRiskThin, "thin margin"
	case marginPct >= marginSweetSpotLow && marginPct <= marginSweetSpotHigh:
		return 0, "margin in the healthy range"
	default:
		return marginRiskBaseline, "margin slightly outside the healthy range"
	}
}

func capitalRisk(acquirePrice float64, qty int32) (float64, float64, string) {
	if qty > capitalQuantityLimit {
		qty = capitalQuantityLimit
	}
	exposure := acquirePrice * float64(qty)
	switch {
	case exposure > capitalExtremeISK:
		return capitalRiskExtreme, exposure, "enormous capital commitment"
	case exposure > capitalHighISK:
		return capitalRiskHigh, exposure, "large capital commitment"
	case exposure > capitalModerateISK:
		return capitalRiskModerate, exposure, "moderate capital commitment"
	case exposure > capitalLowISK:
		return capitalRiskLow, exposure, "small capital commitment"
	default:
		return 0, exposure, "negligible capital commitment"
	}
}

func spreadRisk(spreadPct float64) (float64, string) {
	switch {
	case spreadPct > spreadExtremePct:
		return spreadRiskExtreme, "spread far outside plausible market range"
	case spreadPct > spreadVeryHighPct:
		return spreadRiskVeryHigh, "extreme price spread"
	case spreadPct > spreadHighPct:
		return spreadRiskHigh, "wide price spread"
	case spreadPct > spreadElevatedPct:
		return spreadRiskElevated, "elevated price spread"
	default:
		return 0, "normal price spread"
	}
}

// riskLevel maps a total score onto the coarse display band.
func riskLevel(score float64) string {
	switch {
	case score <= riskLevelLowMax:
		return "low"
	case score <= riskLevelMediumMax:
		return "medium"
	case score <= riskLevelHighMax:
		return "high"
	default:
		return "extreme"
	}
}

// AssessRisk computes the weighted risk score for one opportunity from its
// four risk factors: book volume, margin plausibility, capital at risk, and
// price spread.
func AssessRisk(o *Opportunity) RiskAssessment {
	spreadPct := (o.DisposePrice - o.AcquirePrice) / o.AcquirePrice * 100

	volScore, volReason := volumeRisk(o.Quantity)
	marScore, marReason := marginRisk(o.Margin)
	capScore, exposure, capReason := capitalRisk(o.AcquirePrice, o.Quantity)
	sprScore, sprReason := spreadRisk(spreadPct)

	factors := []RiskFactor{
		{
			Name:   "volume",
			Score:  volScore,
			Weight: riskWeightVolume,
			Reason: volReason,
			Value:  fmt.Sprintf("%d units", o.Quantity),
		},
		{
			Name:   "margin",
			Score:  marScore,
			Weight: riskWeightMargin,
			Reason: marReason,
			Value:  fmt.Sprintf("%.1f%%", o.Margin),
		},
		{
			Name:   "capital",
			Score:  capScore,
			Weight: riskWeightCapital,
			Reason: capReason,
			Value:  fmt.Sprintf("%.0f ISK", exposure),
		},
		{
			Name:   "spread",
			Score:  sprScore,
			Weight: riskWeightSpread,
			Reason: sprReason,
			Value:  fmt.Sprintf("%.1f%%", spreadPct),
		},
	}

	var total float64
	for _, f := range factors {
		total += f.Score * f.Weight
	}

	return RiskAssessment{
		Score:   total,
		Level:   riskLevel(total),
		Factors: factors,
	}
}

// AssessRiskAll annotates every opportunity in place.
func AssessRiskAll(opps []*Opportunity) {
	for _, o := range opps {
		o.Risk = AssessRisk(o)
	}
}
