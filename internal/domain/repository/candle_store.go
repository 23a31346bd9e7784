package repository

import (
	"context"
	"time"

	"CoinPulse/internal/domain/models"
)

// CandleStore provides read access to the ordered OHLCV history the
// indicator engine computes from.
type CandleStore interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time, iv Interval) ([]models.Candle, error)
	// GetLatestNCandles returns up to n most recent candles in ascending
	// bucket order.
	GetLatestNCandles(ctx context.Context, symbol string, n int, iv Interval) ([]models.Candle, error)
}
