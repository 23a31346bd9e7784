// Package signal maps raw indicator values to categorical trading signals
// and rolls them up into category and overall recommendations.
package signal

import (
	"CoinPulse/internal/domain/models"
)

// Classification thresholds. Values sitting exactly on a boundary classify
// toward Neutral (the conservative reading).
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0

	stochOversold   = 20.0
	stochOverbought = 80.0

	// ATR relative-volatility bands vs. its own trailing average.
	atrHighRatio = 1.25
	atrLowRatio  = 0.75
)

// ClassifyRSI maps an RSI value to Oversold / Overbought / Neutral.
func ClassifyRSI(v float64) models.Signal {
	switch {
	case v < rsiOversold:
		return models.SignalOversold
	case v > rsiOverbought:
		return models.SignalOverbought
	default:
		return models.SignalNeutral
	}
}

// ClassifyStochRSI maps the smoothed K value to Oversold / Overbought / Neutral.
func ClassifyStochRSI(k float64) models.Signal {
	switch {
	case k < stochOversold:
		return models.SignalOversold
	case k > stochOverbought:
		return models.SignalOverbought
	default:
		return models.SignalNeutral
	}
}

// ClassifyMACD detects a line/signal crossover. It needs the previous
// period's state: a Buy fires only when the MACD line crossed above the
// signal line this period, a Sell only on a cross below.
func ClassifyMACD(macd, sig, prevMACD, prevSig float64) models.Signal {
	switch {
	case prevMACD <= prevSig && macd > sig:
		return models.SignalBuy
	case prevMACD >= prevSig && macd < sig:
		return models.SignalSell
	default:
		return models.SignalNeutral
	}
}

// ClassifyMACDLevel classifies from the current lines alone, for sources
// that do not expose the previous period's state. Level position reads as
// a lean, not a crossing event.
func ClassifyMACDLevel(macd, sig float64) models.Signal {
	switch {
	case macd > sig:
		return models.SignalBullish
	case macd < sig:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// ClassifyBollinger compares the close to the bands. The band values
// themselves count as touched (price at the band is already an extreme).
func ClassifyBollinger(price, upper, lower float64) models.Signal {
	switch {
	case price >= upper:
		return models.SignalOverbought
	case price <= lower:
		return models.SignalOversold
	default:
		return models.SignalNeutral
	}
}

// ClassifyATR grades current volatility against the indicator's own
// trailing average. ATR carries no directional signal.
func ClassifyATR(atr, trailingAvg float64) models.Signal {
	if trailingAvg <= 0 {
		return models.SignalNormalVolatility
	}
	ratio := atr / trailingAvg
	switch {
	case ratio > atrHighRatio:
		return models.SignalHighVolatility
	case ratio < atrLowRatio:
		return models.SignalLowVolatility
	default:
		return models.SignalNormalVolatility
	}
}

// ClassifyOBV compares the cumulative volume line to its previous value.
func ClassifyOBV(last, prev float64) models.Signal {
	switch {
	case last > prev:
		return models.SignalAccumulation
	case last < prev:
		return models.SignalDistribution
	default:
		return models.SignalNeutral
	}
}

// ClassifyCMF maps money flow sign to buying vs. selling pressure.
func ClassifyCMF(v float64) models.Signal {
	switch {
	case v > 0:
		return models.SignalBuyingPressure
	case v < 0:
		return models.SignalSellingPressure
	default:
		return models.SignalNeutral
	}
}

// ClassifyVWAP compares the close to the session VWAP level.
func ClassifyVWAP(price, vwap float64) models.Signal {
	switch {
	case price > vwap:
		return models.SignalBullish
	case price < vwap:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// ClassifySuperTrend maps the band direction to Buy / Sell.
func ClassifySuperTrend(uptrend bool) (models.Signal, string) {
	if uptrend {
		return models.SignalBuy, "Uptrend"
	}
	return models.SignalSell, "Downtrend"
}

// ClassifyEMA compares the close to one moving-average level.
func ClassifyEMA(price, ema float64) models.Signal {
	switch {
	case price > ema:
		return models.SignalBuy
	case price < ema:
		return models.SignalSell
	default:
		return models.SignalNeutral
	}
}

// EMAAlignment reports the stack order of the short/medium/long EMAs:
// Bullish when strictly ascending (EMA20 > EMA50 > EMA200), Bearish when
// strictly descending, Neutral otherwise.
func EMAAlignment(ema20, ema50, ema200 float64) models.Signal {
	switch {
	case ema20 > ema50 && ema50 > ema200:
		return models.SignalBullish
	case ema20 < ema50 && ema50 < ema200:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}
