package repository

import (
	"context"
	"time"

	"CoinPulse/internal/domain/models"
)

// CandleStream is a live market feed delivering closed candles (Binance
// kline WebSocket or equivalent).
type CandleStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Candle, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher fans completed analysis records and ingested candles out to a
// message backend.
type Publisher interface {
	PublishRecord(ctx context.Context, rec *models.AnalysisRecord) error
	PublishCandle(ctx context.Context, c *models.Candle) error
	PublishCandleBatch(ctx context.Context, cs []*models.Candle) error
	Close() error
}

// CandleWriter persists ingested candles.
type CandleWriter interface {
	Store(ctx context.Context, c *models.Candle) error
	StoreBatch(ctx context.Context, cs []*models.Candle) error
	Close() error
}

// AnalysisStore persists and reads back finished analysis records.
type AnalysisStore interface {
	Insert(ctx context.Context, rec *models.AnalysisRecord) error
	// Latest returns up to limit most recent records for symbol, newest
	// first. Empty symbol means all symbols.
	Latest(ctx context.Context, symbol string, limit int) ([]*models.AnalysisRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational metrics for the pipeline.
type Metrics interface {
	RecordRecordStored(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordIndicatorsResolved(symbol string, n int)
}

// Clock abstracts time for the rate limiter and retry loops so backoff
// behavior is testable without wall-clock waits.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}
