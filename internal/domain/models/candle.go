package models

import "time"

// Candle represents one interval's OHLCV record. Sequences handed to the
// indicator engine are strictly increasing in Bucket with a fixed interval.
type Candle struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Closes extracts the close series from a candle sequence.
func Closes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// Snapshot is a spot price / market data point sourced independently from
// the indicator pipeline (CoinGecko simple/price shape).
type Snapshot struct {
	Symbol           string
	Price            float64
	PriceChange24h   float64
	ChangePercent24h float64
	MarketCap        float64
	Volume24h        float64
	AsOf             time.Time
}
