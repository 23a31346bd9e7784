package indicators

import (
	"math"

	"CoinPulse/internal/domain/models"
)

// Bollinger computes Bollinger Bands: middle = SMA(period), upper/lower =
// middle +/- mult * population stddev over the same window.
func Bollinger(closes []float64, period int, mult float64) (upper, middle, lower float64, err error) {
	middle, err = SMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}
	sd := stddev(closes, period, middle)
	return middle + mult*sd, middle, middle - mult*sd, nil
}

// trueRanges computes the true-range series. Index 0 falls back to the
// plain high-low range since there is no previous close.
func trueRanges(cs []models.Candle) []float64 {
	tr := make([]float64, len(cs))
	for i, c := range cs {
		if i == 0 {
			tr[i] = c.High - c.Low
			continue
		}
		prevClose := cs[i-1].Close
		tr[i] = math.Max(c.High-c.Low,
			math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return tr
}

// ATRSeries computes the Wilder-smoothed average true range series. Slots
// before index period are zero.
func ATRSeries(cs []models.Candle, period int) ([]float64, error) {
	if period <= 0 || len(cs) < period+1 {
		return nil, models.ErrInsufficientHistory
	}
	return wilderSeries(trueRanges(cs), period), nil
}

// ATR returns the latest Wilder-smoothed average true range.
func ATR(cs []models.Candle, period int) (float64, error) {
	s, err := ATRSeries(cs, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}
