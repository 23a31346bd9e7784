package indicators

import (
	"time"

	"CoinPulse/internal/domain/models"
)

// OBVSeries computes the cumulative on-balance volume series: volume added
// on up closes, subtracted on down closes, unchanged when equal.
func OBVSeries(cs []models.Candle) ([]float64, error) {
	if len(cs) < 2 {
		return nil, models.ErrInsufficientHistory
	}
	out := make([]float64, len(cs))
	for i := 1; i < len(cs); i++ {
		switch {
		case cs[i].Close > cs[i-1].Close:
			out[i] = out[i-1] + cs[i].Volume
		case cs[i].Close < cs[i-1].Close:
			out[i] = out[i-1] - cs[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out, nil
}

// CMF computes the Chaikin Money Flow over period. A high==low candle
// contributes a zero multiplier; a zero-volume window yields 0.
func CMF(cs []models.Candle, period int) (float64, error) {
	if period <= 0 || len(cs) < period {
		return 0, models.ErrInsufficientHistory
	}
	var mfvSum, volSum float64
	for i := len(cs) - period; i < len(cs); i++ {
		c := cs[i]
		volSum += c.Volume
		rng := c.High - c.Low
		if rng == 0 {
			continue
		}
		mult := ((c.Close - c.Low) - (c.High - c.Close)) / rng
		mfvSum += mult * c.Volume
	}
	if volSum == 0 {
		return 0, nil
	}
	return mfvSum / volSum, nil
}

// VWAP computes the volume-weighted average price over the current
// session. Sessions reset at each UTC day boundary; a zero-volume session
// yields 0 rather than NaN.
func VWAP(cs []models.Candle) (float64, error) {
	if len(cs) == 0 {
		return 0, models.ErrInsufficientHistory
	}
	last := cs[len(cs)-1]
	sessionStart := last.Bucket.UTC().Truncate(24 * time.Hour)

	var pvSum, volSum float64
	for i := len(cs) - 1; i >= 0; i-- {
		c := cs[i]
		if c.Bucket.UTC().Before(sessionStart) {
			break
		}
		typical := (c.High + c.Low + c.Close) / 3
		pvSum += typical * c.Volume
		volSum += c.Volume
	}
	if volSum == 0 {
		return 0, nil
	}
	return pvSum / volSum, nil
}
