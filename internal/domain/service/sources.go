package service

import (
	"context"

	"CoinPulse/internal/domain/models"
)

// IndicatorValue is the raw payload one remote indicator call yields.
// Field presence follows the indicator family: simple values set Value,
// MACD sets the three MACD fields, bands set Upper/Middle/Lower,
// SuperTrend sets Value and TrendUp.
type IndicatorValue struct {
	Value      float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	Upper      float64
	Middle     float64
	Lower      float64
	K          float64
	D          float64
	TrendUp    bool
	Close      float64
}

// IndicatorSource fetches pre-computed indicator values one at a time from
// a quota-constrained remote provider.
type IndicatorSource interface {
	FetchIndicator(ctx context.Context, symbol, exchange, interval, name string, params map[string]any) (IndicatorValue, error)
}

// SnapshotSource fetches the spot price / market data snapshot.
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, symbol string) (models.Snapshot, error)
}
