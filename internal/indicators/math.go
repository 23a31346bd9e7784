package indicators

import (
	"math"

	"CoinPulse/internal/domain/models"
)

// SMA computes the simple moving average over the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 || len(values) < period {
		return 0, models.ErrInsufficientHistory
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMASeries computes the exponential moving average series. The first
// period-1 slots are zero; index period-1 is seeded with the SMA of the
// first period values, then the recursive formula applies.
func EMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 || len(values) < period {
		return nil, models.ErrInsufficientHistory
	}
	out := make([]float64, len(values))
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / (float64(period) + 1.0)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}
	return out, nil
}

// EMA returns the latest exponential moving average value.
func EMA(values []float64, period int) (float64, error) {
	s, err := EMASeries(values, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}

// stddev computes the population standard deviation of the last period
// values around mean.
func stddev(values []float64, period int, mean float64) float64 {
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(period))
}

// wilderSeries applies Wilder's smoothing: seed = SMA of the first period
// values, then prev*(period-1)/period + value/period.
func wilderSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (prev*float64(period-1) + values[i]) / float64(period)
		out[i] = prev
	}
	return out
}
