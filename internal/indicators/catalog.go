// Package indicators computes the fixed technical-indicator catalog from
// OHLCV candle history. All smoothing uses each indicator's canonical
// recursive formula so values are stable across incremental updates.
package indicators

import (
	"CoinPulse/internal/domain/models"
)

// Spec is one static catalog entry.
type Spec struct {
	Name     string         // display name, e.g. "RSI(14)"
	Key      string         // remote provider key, e.g. "rsi"
	Params   map[string]any // provider params (period, stddev, ...)
	Lookback int            // minimum candles required
	Kind     models.ResultKind
}

// Catalog returns the nine technical-indicator entries in their fixed
// order. Moving averages are catalogued separately (MAPeriods).
func Catalog() []Spec {
	return []Spec{
		{Name: "RSI(14)", Key: "rsi", Params: map[string]any{"period": 14}, Lookback: 15, Kind: models.KindValue},
		{Name: "MACD(12,26)", Key: "macd", Params: map[string]any{}, Lookback: 35, Kind: models.KindValue},
		{Name: "Bollinger Bands(20,2)", Key: "bbands", Params: map[string]any{"period": 20, "stddev": 2}, Lookback: 20, Kind: models.KindBanded},
		{Name: "OBV", Key: "obv", Params: map[string]any{}, Lookback: 2, Kind: models.KindValue},
		{Name: "StochRSI", Key: "stochrsi", Params: map[string]any{}, Lookback: 31, Kind: models.KindValue},
		{Name: "ATR(14)", Key: "atr", Params: map[string]any{"period": 14}, Lookback: 15, Kind: models.KindValue},
		{Name: "VWAP", Key: "vwap", Params: map[string]any{}, Lookback: 1, Kind: models.KindValue},
		{Name: "SuperTrend", Key: "supertrend", Params: map[string]any{}, Lookback: 11, Kind: models.KindTrend},
		{Name: "CMF(20)", Key: "cmf", Params: map[string]any{"period": 20}, Lookback: 21, Kind: models.KindValue},
	}
}

// MAPeriods lists the exponential moving-average periods, short to long.
var MAPeriods = []int{20, 50, 200}

// MaxLookback is the longest lookback any catalog entry requires.
const MaxLookback = 200

// CatalogSize is the number of entries a fully resolved cycle produces.
func CatalogSize() int { return len(Catalog()) + len(MAPeriods) }

// ValidateCatalog checks the static catalog for malformed entries. A
// failure here is a fatal config error: the cycle must not start.
func ValidateCatalog() error {
	seen := make(map[string]bool)
	for _, s := range Catalog() {
		if s.Name == "" || s.Key == "" || s.Lookback < 1 {
			return &models.FatalConfigError{Reason: "malformed catalog entry " + s.Name}
		}
		if seen[s.Key] {
			return &models.FatalConfigError{Reason: "duplicate catalog key " + s.Key}
		}
		seen[s.Key] = true
	}
	for _, p := range MAPeriods {
		if p < 1 || p > MaxLookback {
			return &models.FatalConfigError{Reason: "invalid moving-average period"}
		}
	}
	return nil
}
