package indicators

import (
	"CoinPulse/internal/domain/models"
)

// MACDResult holds the latest MACD line, signal line and histogram, plus
// the previous period's values for crossover detection.
type MACDResult struct {
	MACD       float64
	Signal     float64
	Histogram  float64
	PrevMACD   float64
	PrevSignal float64
}

// MACD computes MACD(fast, slow, signal): the fast/slow EMA difference and
// an EMA of that difference.
func MACD(closes []float64, fast, slow, signalPeriod int) (MACDResult, error) {
	if len(closes) < slow+signalPeriod {
		return MACDResult{}, models.ErrInsufficientHistory
	}
	fastEMA, err := EMASeries(closes, fast)
	if err != nil {
		return MACDResult{}, err
	}
	slowEMA, err := EMASeries(closes, slow)
	if err != nil {
		return MACDResult{}, err
	}

	// MACD line exists once the slow EMA does.
	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		line = append(line, fastEMA[i]-slowEMA[i])
	}
	sig, err := EMASeries(line, signalPeriod)
	if err != nil {
		return MACDResult{}, err
	}

	n := len(line)
	res := MACDResult{
		MACD:      line[n-1],
		Signal:    sig[n-1],
		Histogram: line[n-1] - sig[n-1],
	}
	if n >= 2 {
		res.PrevMACD = line[n-2]
		res.PrevSignal = sig[n-2]
	}
	return res, nil
}

// SuperTrend computes the ATR-band trend flip indicator. It returns the
// active band value and whether the direction is up at the latest candle.
func SuperTrend(cs []models.Candle, period int, mult float64) (value float64, uptrend bool, err error) {
	if len(cs) < period+1 {
		return 0, false, models.ErrInsufficientHistory
	}
	atrs, err := ATRSeries(cs, period)
	if err != nil {
		return 0, false, err
	}

	n := len(cs)
	upper := make([]float64, n)
	lower := make([]float64, n)
	up := true

	for i := period; i < n; i++ {
		mid := (cs[i].High + cs[i].Low) / 2
		basicUpper := mid + mult*atrs[i]
		basicLower := mid - mult*atrs[i]

		if i == period {
			upper[i] = basicUpper
			lower[i] = basicLower
			up = cs[i].Close > mid
			continue
		}

		// bands only tighten unless price closed beyond them
		upper[i] = basicUpper
		if basicUpper > upper[i-1] && cs[i-1].Close <= upper[i-1] {
			upper[i] = upper[i-1]
		}
		lower[i] = basicLower
		if basicLower < lower[i-1] && cs[i-1].Close >= lower[i-1] {
			lower[i] = lower[i-1]
		}

		// direction flips when close crosses the prior active band
		if up && cs[i].Close < lower[i] {
			up = false
		} else if !up && cs[i].Close > upper[i] {
			up = true
		}
	}

	if up {
		return lower[n-1], true, nil
	}
	return upper[n-1], false, nil
}
