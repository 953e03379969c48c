package engine

import (
	"math"
	"sort"
)

// Composite score weights. Tuned for "recommendation" ordering: liquidity
// dominates, raw profit second, margin third, safety as a tiebreaker.
const (
	scoreWeightProfit = 0.3
	scoreWeightVolume = 0.4
	scoreWeightMargin = 0.2
	scoreWeightSafety = 0.1
)

// Volume multiplier tiers. Thin books are penalized hard: a single-unit
// listing is almost always bait, and anything under ~50 units rarely fills.
const (
	volumeTier1Qty  = 1
	volumeTier2Qty  = 5
	volumeTier3Qty  = 20
	volumeTier4Qty  = 50
	volumeTier1Mult = 0.1
	volumeTier2Mult = 0.3
	volumeTier3Mult = 0.6
	volumeTier4Mult = 0.8
	volumeTierMax   = 1.0
)

// Safety sub-score penalties (applied to a 1-5 scale, clamped).
const (
	safetyMax                  = 5.0
	safetyMin                  = 1.0
	safetyPenaltySingleUnit    = 3.0 // quantity == 1
	safetyPenaltyTinyBook      = 2.0 // quantity <= 5
	safetyPenaltySmallBook     = 1.0 // quantity <= 20
	safetyPenaltyExtremeMargin = 1.5 // margin > 80%
	safetyPenaltyHighMargin    = 0.5 // margin > 60%
	safetyPenaltyThinMargin    = 1.0 // margin < 5%
	safetyPenaltyPriceRatio    = 1.0 // dispose/acquire > 3
	safetyMarginExtreme        = 80.0
	safetyMarginHigh           = 60.0
	safetyMarginThin           = 5.0
	safetyPriceRatioLimit      = 3.0
)

// CompositeScore is the ranking value used for "best opportunities"
// ordering. The final score is the weighted base score scaled by the
// volume multiplier.
type CompositeScore struct {
	ProfitNorm       float64 `json:"profit_norm"`
	VolumeNorm       float64 `json:"volume_norm"`
	MarginNorm       float64 `json:"margin_norm"`
	SafetyNorm       float64 `json:"safety_norm"`
	BaseScore        float64 `json:"base_score"`
	VolumeMultiplier float64 `json:"volume_multiplier"`
	FinalScore       float64 `json:"final_score"`
}

// volumeMultiplier returns the tiered quantity penalty. It is a
// non-decreasing step function of quantity.
func volumeMultiplier(qty int32) float64 {
	switch {
	case qty <= volumeTier1Qty:
		return volumeTier1Mult
	case qty <= volumeTier2Qty:
		return volumeTier2Mult
	case qty <= volumeTier3Qty:
		return volumeTier3Mult
	case qty <= volumeTier4Qty:
		return volumeTier4Mult
	default:
		return volumeTierMax
	}
}

// safetyScore rates an opportunity from 1 (suspicious) to 5 (safe). It
// starts from 5 and subtracts penalties for thin books, implausible
// margins, and extreme price spreads.
func safetyScore(qty int32, marginPct, priceRatio float64) float64 {
	s := safetyMax
	switch {
	case qty == 1:
		s -= safetyPenaltySingleUnit
	case qty <= 5:
		s -= safetyPenaltyTinyBook
	case qty <= 20:
		s -= safetyPenaltySmallBook
	}
	switch {
	case marginPct > safetyMarginExtreme:
		s -= safetyPenaltyExtremeMargin
	case marginPct > safetyMarginHigh:
		s -= safetyPenaltyHighMargin
	}
	if marginPct < safetyMarginThin {
		s -= safetyPenaltyThinMargin
	}
	if priceRatio > safetyPriceRatioLimit {
		s -= safetyPenaltyPriceRatio
	}
	if s < safetyMin {
		s = safetyMin
	}
	if s > safetyMax {
		s = safetyMax
	}
	return s
}

// ScoreAll annotates each opportunity with its composite score. Profit,
// volume (log-scaled), and margin are normalized against the maximum
// observed in this result set, so scores are only comparable within one
// query.
func ScoreAll(opps []*Opportunity) {
	var maxProfit, maxLogVolume, maxMargin float64
	for _, o := range opps {
		if o.NetProfit > maxProfit {
			maxProfit = o.NetProfit
		}
		if lv := math.Log10(float64(o.Quantity) + 1); lv > maxLogVolume {
			maxLogVolume = lv
		}
		if o.Margin > maxMargin {
			maxMargin = o.Margin
		}
	}

	for _, o := range opps {
		var sc CompositeScore
		if maxProfit > 0 {
			sc.ProfitNorm = o.NetProfit / maxProfit
		}
		if maxLogVolume > 0 {
			sc.VolumeNorm = math.Log10(float64(o.Quantity)+1) / maxLogVolume
		}
		if maxMargin > 0 {
			sc.MarginNorm = o.Margin / maxMargin
		}
		sc.SafetyNorm = safetyScore(o.Quantity, o.Margin, o.DisposePrice/o.AcquirePrice) / safetyMax

		sc.BaseScore = scoreWeightProfit*sc.ProfitNorm +
			scoreWeightVolume*sc.VolumeNorm +
			scoreWeightMargin*sc.MarginNorm +
			scoreWeightSafety*sc.SafetyNorm
		sc.VolumeMultiplier = volumeMultiplier(o.Quantity)
		sc.FinalScore = sc.BaseScore * sc.VolumeMultiplier

		o.Score = sc
	}
}

// Recommendations returns the top n opportunities by final score.
// Single-unit listings are near-certain scams and are excluded outright,
// regardless of how well they score.
func Recommendations(opps []*Opportunity, n int) []*Opportunity {
	var out []*Opportunity
	for _, o := range opps {
		if o.Quantity == 1 {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score.FinalScore != out[j].Score.FinalScore {
			return out[i].Score.FinalScore > out[j].Score.FinalScore
		}
		return out[i].TypeID < out[j].TypeID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
