package models

import "encoding/json"

// Signal is a categorical classification derived from an indicator value.
type Signal string

const (
	SignalBuy     Signal = "Buy"
	SignalSell    Signal = "Sell"
	SignalNeutral Signal = "Neutral"

	SignalOverbought Signal = "Overbought"
	SignalOversold   Signal = "Oversold"

	SignalBullish Signal = "Bullish"
	SignalBearish Signal = "Bearish"

	SignalAccumulation Signal = "Accumulation"
	SignalDistribution Signal = "Distribution"

	SignalBuyingPressure  Signal = "Buying Pressure"
	SignalSellingPressure Signal = "Selling Pressure"

	SignalHighVolatility   Signal = "High Volatility"
	SignalNormalVolatility Signal = "Normal Volatility"
	SignalLowVolatility    Signal = "Low Volatility"
)

// Leaning folds the signal vocabulary into buy/sell/neutral buckets for
// aggregation. Volatility-only signals count as neutral.
type Leaning int

const (
	LeanNeutral Leaning = iota
	LeanBuy
	LeanSell
)

func (s Signal) Leaning() Leaning {
	switch s {
	case SignalBuy, SignalOversold, SignalBullish, SignalAccumulation, SignalBuyingPressure:
		return LeanBuy
	case SignalSell, SignalOverbought, SignalBearish, SignalDistribution, SignalSellingPressure:
		return LeanSell
	default:
		return LeanNeutral
	}
}

// ResultKind tags the value shape an indicator carries.
type ResultKind int

const (
	// KindValue is a single primary value (RSI, ATR, OBV, CMF, StochRSI, VWAP).
	KindValue ResultKind = iota
	// KindBanded carries upper/middle/lower bands (Bollinger).
	KindBanded
	// KindTrend carries a value plus a trend direction (SuperTrend).
	KindTrend
)

// IndicatorResult is one resolved catalog entry. Created once per cycle and
// never mutated; a failed computation yields no result at all.
type IndicatorResult struct {
	Name   string
	Kind   ResultKind
	Signal Signal

	Value float64

	// Banded sub-values (Kind == KindBanded).
	Upper  float64
	Middle float64
	Lower  float64

	// Histogram is set for MACD only.
	Histogram *float64

	// Trend direction ("Uptrend"/"Downtrend", Kind == KindTrend).
	Trend string
}

// MarshalJSON emits the schema-flexible per-indicator document the
// persistence layer stores: different kinds carry different sub-fields.
func (r IndicatorResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindBanded:
		return json.Marshal(struct {
			Name   string  `json:"name"`
			Upper  float64 `json:"upper"`
			Middle float64 `json:"middle"`
			Lower  float64 `json:"lower"`
			Signal Signal  `json:"signal"`
		}{r.Name, r.Upper, r.Middle, r.Lower, r.Signal})
	case KindTrend:
		return json.Marshal(struct {
			Name   string  `json:"name"`
			Value  float64 `json:"value"`
			Signal Signal  `json:"signal"`
			Trend  string  `json:"trend"`
		}{r.Name, r.Value, r.Signal, r.Trend})
	default:
		if r.Histogram != nil {
			return json.Marshal(struct {
				Name      string  `json:"name"`
				Value     float64 `json:"value"`
				Signal    Signal  `json:"signal"`
				Histogram float64 `json:"histogram"`
			}{r.Name, r.Value, r.Signal, *r.Histogram})
		}
		return json.Marshal(struct {
			Name   string  `json:"name"`
			Value  float64 `json:"value"`
			Signal Signal  `json:"signal"`
		}{r.Name, r.Value, r.Signal})
	}
}

// UnmarshalJSON reverses MarshalJSON, inferring the kind from which
// sub-fields the document carries.
func (r *IndicatorResult) UnmarshalJSON(b []byte) error {
	var doc struct {
		Name      string   `json:"name"`
		Value     float64  `json:"value"`
		Upper     *float64 `json:"upper"`
		Middle    *float64 `json:"middle"`
		Lower     *float64 `json:"lower"`
		Signal    Signal   `json:"signal"`
		Histogram *float64 `json:"histogram"`
		Trend     string   `json:"trend"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.Name = doc.Name
	r.Signal = doc.Signal
	r.Value = doc.Value
	r.Histogram = doc.Histogram
	r.Trend = doc.Trend
	switch {
	case doc.Upper != nil:
		r.Kind = KindBanded
		r.Upper = *doc.Upper
		if doc.Middle != nil {
			r.Middle = *doc.Middle
		}
		if doc.Lower != nil {
			r.Lower = *doc.Lower
		}
	case doc.Trend != "":
		r.Kind = KindTrend
	default:
		r.Kind = KindValue
	}
	return nil
}

// MovingAverage is one EMA entry of the moving-averages category.
type MovingAverage struct {
	Name   string  `json:"name"` // "MA20", "MA50", "MA200"
	Type   string  `json:"type"` // always "Exponential"
	Period int     `json:"-"`
	Value  float64 `json:"value"`
	Signal Signal  `json:"signal"`
}

// PivotPoints holds one classic pivot set computed from the previous candle.
type PivotPoints struct {
	Type  string  `json:"type"` // "Classic"
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	R3    float64 `json:"r3"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"`
	S3    float64 `json:"s3"`
}
