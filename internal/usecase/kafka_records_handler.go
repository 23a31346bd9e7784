package usecase

import (
	"context"
	"encoding/json"
	"time"

	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	pkgkafka "CoinPulse/pkg/kafka"
)

// KafkaRecordsHandler consumes finished analysis records off the bus and
// persists them, decoupling analysis cycles from storage availability.
type KafkaRecordsHandler struct {
	topic   string
	store   domrepo.AnalysisStore
	metrics domrepo.Metrics
}

func NewKafkaRecordsHandler(topic string, store domrepo.AnalysisStore, metrics domrepo.Metrics) *KafkaRecordsHandler {
	return &KafkaRecordsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaRecordsHandler) Topic() string { return h.topic }

func (h *KafkaRecordsHandler) Handle(ctx context.Context, b []byte) error {
	var rec models.AnalysisRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	start := time.Now()
	err := h.store.Insert(ctx, &rec)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordRecordStored("clickhouse", rec.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaRecordsHandler)(nil)
