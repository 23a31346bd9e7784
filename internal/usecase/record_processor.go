package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
)

// RecordProcessor routes finished analysis records to the configured
// backend: a Kafka topic or direct ClickHouse inserts.
type RecordProcessor struct {
	pub     drepo.Publisher
	store   drepo.AnalysisStore
	metrics drepo.Metrics
	backend string
}

// NewRecordProcessor creates a new RecordProcessor instance.
func NewRecordProcessor(
	pub drepo.Publisher,
	store drepo.AnalysisStore,
	metrics drepo.Metrics,
	backend string,
) *RecordProcessor {
	return &RecordProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single record to the configured backend.
func (p *RecordProcessor) Process(ctx context.Context, rec *models.AnalysisRecord) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishRecord(ctx, rec)
	case "clickhouse":
		err = p.store.Insert(ctx, rec)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process record: %w", err)
	}

	p.metrics.RecordRecordStored(p.backend, rec.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *RecordProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
