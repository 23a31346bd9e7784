package indicators

import (
	"CoinPulse/internal/domain/models"
)

// RSISeries computes Wilder-smoothed RSI over period. Slots before index
// period are zero; index period holds the first valid value.
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 || len(closes) < period+1 {
		return nil, models.ErrInsufficientHistory
	}

	out := make([]float64, len(closes))

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out, nil
}

// RSI returns the latest Wilder-smoothed RSI value in [0, 100].
func RSI(closes []float64, period int) (float64, error) {
	s, err := RSISeries(closes, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// StochRSI applies a stochastic oscillator to the RSI series and smooths
// K and D with simple moving averages. Returns values on the 0-100 scale.
func StochRSI(closes []float64, rsiPeriod, stochPeriod, kSmooth, dSmooth int) (k, d float64, err error) {
	need := rsiPeriod + stochPeriod + kSmooth + dSmooth
	if len(closes) < need {
		return 0, 0, models.ErrInsufficientHistory
	}
	rsis, err := RSISeries(closes, rsiPeriod)
	if err != nil {
		return 0, 0, err
	}
	rsis = rsis[rsiPeriod:] // valid region only

	stoch := make([]float64, 0, len(rsis))
	for i := stochPeriod - 1; i < len(rsis); i++ {
		lo, hi := rsis[i], rsis[i]
		for j := i - stochPeriod + 1; j <= i; j++ {
			if rsis[j] < lo {
				lo = rsis[j]
			}
			if rsis[j] > hi {
				hi = rsis[j]
			}
		}
		if hi == lo {
			// flat RSI window reads as mid-range
			stoch = append(stoch, 50.0)
			continue
		}
		stoch = append(stoch, (rsis[i]-lo)/(hi-lo)*100.0)
	}

	ks := make([]float64, 0, len(stoch))
	for i := kSmooth - 1; i < len(stoch); i++ {
		v, _ := SMA(stoch[:i+1], kSmooth)
		ks = append(ks, v)
	}
	if len(ks) < dSmooth {
		return 0, 0, models.ErrInsufficientHistory
	}
	k = ks[len(ks)-1]
	d, _ = SMA(ks, dSmooth)
	return k, d, nil
}
