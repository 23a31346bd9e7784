package usecase

import (
	"errors"
	"fmt"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/indicators"
	"CoinPulse/internal/signal"
)

// Calculation is the classified output of one local indicator pass over a
// candle window. Entries that could not be computed are absent; each
// absence leaves a warning.
type Calculation struct {
	Indicators     []models.IndicatorResult
	MovingAverages []models.MovingAverage
	Pivots         []models.PivotPoints
	Warnings       []string
	DataPoints     int
}

// Compute runs the full catalog against the candle window (oldest first)
// and classifies every value. An indicator short on history is skipped,
// never zero-filled: a missing entry is honest, a fabricated one is not.
func Compute(cs []models.Candle) Calculation {
	out := Calculation{DataPoints: len(cs)}
	if len(cs) == 0 {
		out.Warnings = append(out.Warnings, "no candle history")
		return out
	}
	closes := models.Closes(cs)
	price := closes[len(closes)-1]

	for _, spec := range indicators.Catalog() {
		res, err := computeOne(spec, cs, closes, price)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %v", spec.Name, err))
			continue
		}
		out.Indicators = append(out.Indicators, res)
	}

	for _, period := range indicators.MAPeriods {
		v, err := indicators.EMA(closes, period)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("MA%d: %v", period, err))
			continue
		}
		out.MovingAverages = append(out.MovingAverages, models.MovingAverage{
			Name:   fmt.Sprintf("MA%d", period),
			Type:   "Exponential",
			Period: period,
			Value:  v,
			Signal: signal.ClassifyEMA(price, v),
		})
	}

	pivots, err := indicators.ClassicPivots(cs)
	if err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("pivot points: %v", err))
	} else {
		out.Pivots = pivots
	}
	return out
}

func computeOne(spec indicators.Spec, cs []models.Candle, closes []float64, price float64) (models.IndicatorResult, error) {
	res := models.IndicatorResult{Name: spec.Name, Kind: spec.Kind}

	switch spec.Key {
	case "rsi":
		v, err := indicators.RSI(closes, 14)
		if err != nil {
			return res, err
		}
		res.Value = v
		res.Signal = signal.ClassifyRSI(v)

	case "macd":
		m, err := indicators.MACD(closes, 12, 26, 9)
		if err != nil {
			return res, err
		}
		res.Value = m.MACD
		h := m.Histogram
		res.Histogram = &h
		res.Signal = signal.ClassifyMACD(m.MACD, m.Signal, m.PrevMACD, m.PrevSignal)

	case "bbands":
		upper, middle, lower, err := indicators.Bollinger(closes, 20, 2)
		if err != nil {
			return res, err
		}
		res.Upper, res.Middle, res.Lower = upper, middle, lower
		res.Signal = signal.ClassifyBollinger(price, upper, lower)

	case "obv":
		series, err := indicators.OBVSeries(cs)
		if err != nil {
			return res, err
		}
		res.Value = series[len(series)-1]
		res.Signal = signal.ClassifyOBV(series[len(series)-1], series[len(series)-2])

	case "stochrsi":
		k, _, err := indicators.StochRSI(closes, 14, 14, 3, 3)
		if err != nil {
			return res, err
		}
		res.Value = k
		res.Signal = signal.ClassifyStochRSI(k)

	case "atr":
		series, err := indicators.ATRSeries(cs, 14)
		if err != nil {
			return res, err
		}
		last := series[len(series)-1]
		res.Value = last
		res.Signal = signal.ClassifyATR(last, trailingMean(series[:len(series)-1], 14))

	case "vwap":
		v, err := indicators.VWAP(cs)
		if err != nil {
			return res, err
		}
		res.Value = v
		res.Signal = signal.ClassifyVWAP(price, v)

	case "supertrend":
		v, up, err := indicators.SuperTrend(cs, 10, 3)
		if err != nil {
			return res, err
		}
		res.Value = v
		res.Signal, res.Trend = signal.ClassifySuperTrend(up)

	case "cmf":
		v, err := indicators.CMF(cs, 20)
		if err != nil {
			return res, err
		}
		res.Value = v
		res.Signal = signal.ClassifyCMF(v)

	default:
		return res, errors.New("unknown catalog key")
	}
	return res, nil
}

// trailingMean averages the last n values, or whatever is available.
func trailingMean(xs []float64, n int) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
