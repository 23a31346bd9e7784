package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
)

// CandleProcessor routes ingested candles to the configured backend.
type CandleProcessor struct {
	pub     drepo.Publisher
	writer  drepo.CandleWriter
	metrics drepo.Metrics
	backend string
}

// NewCandleProcessor creates a new CandleProcessor instance.
func NewCandleProcessor(
	pub drepo.Publisher,
	writer drepo.CandleWriter,
	metrics drepo.Metrics,
	backend string,
) *CandleProcessor {
	return &CandleProcessor{
		pub:     pub,
		writer:  writer,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single candle to the configured backend.
func (p *CandleProcessor) Process(ctx context.Context, c *models.Candle) error {
	if c == nil {
		return fmt.Errorf("candle is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishCandle(ctx, c)
	case "clickhouse":
		err = p.writer.Store(ctx, c)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("candle_process")
		return fmt.Errorf("process candle: %w", err)
	}

	p.metrics.RecordRecordStored(p.backend, c.Symbol)
	p.metrics.RecordLatency("candle_process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple candles in a batch.
func (p *CandleProcessor) ProcessBatch(ctx context.Context, cs []*models.Candle) error {
	if len(cs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishCandleBatch(ctx, cs)
	case "clickhouse":
		err = p.writer.StoreBatch(ctx, cs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("candle_process_batch")
		return fmt.Errorf("process candle batch: %w", err)
	}

	for _, c := range cs {
		p.metrics.RecordRecordStored(p.backend, c.Symbol)
	}
	p.metrics.RecordLatency("candle_process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *CandleProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.writer != nil {
		_ = p.writer.Close()
	}
}
