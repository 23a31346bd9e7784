package signal

import (
	"CoinPulse/internal/domain/models"
)

// Summary labels beyond the plain Buy/Sell/Neutral triple. Strong variants
// apply to the moving-averages category when the vote is unanimous.
const (
	LabelBuy        = "Buy"
	LabelSell       = "Sell"
	LabelNeutral    = "Neutral"
	LabelStrongBuy  = "Strong Buy"
	LabelStrongSell = "Strong Sell"
)

type voteCount struct {
	buy, sell, neutral int
}

func (v *voteCount) add(s models.Signal) {
	switch s.Leaning() {
	case models.LeanBuy:
		v.buy++
	case models.LeanSell:
		v.sell++
	default:
		v.neutral++
	}
}

// label picks the vote with a strict majority over both other buckets.
// Any tie for first place reads as Neutral.
func (v *voteCount) label() string {
	switch {
	case v.buy > v.sell && v.buy > v.neutral:
		return LabelBuy
	case v.sell > v.buy && v.sell > v.neutral:
		return LabelSell
	default:
		return LabelNeutral
	}
}

// Summarize aggregates resolved indicator signals into the three summary
// labels. Categories are voted independently; the overall label re-votes
// the union of individual signals so each indicator counts exactly once
// regardless of bucketing.
func Summarize(inds []models.IndicatorResult, mas []models.MovingAverage) models.Summary {
	var tech, ma, all voteCount
	for _, r := range inds {
		tech.add(r.Signal)
		all.add(r.Signal)
	}
	for _, m := range mas {
		ma.add(m.Signal)
		all.add(m.Signal)
	}

	maLabel := ma.label()
	// unanimous moving averages upgrade to a Strong reading
	if len(mas) > 0 {
		if ma.buy == len(mas) {
			maLabel = LabelStrongBuy
		} else if ma.sell == len(mas) {
			maLabel = LabelStrongSell
		}
	}

	return models.Summary{
		Overall:             all.label(),
		TechnicalIndicators: tech.label(),
		MovingAverages:      maLabel,
	}
}
