package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository"
	pkgkafka "CoinPulse/pkg/kafka"
)

// CHAnalysisStore implements AnalysisStore for ClickHouse. Indicator
// payloads are stored as JSON documents: their per-indicator shape varies
// and readers consume them whole.
type CHAnalysisStore struct {
	db    *sql.DB
	table string
}

// NewCHAnalysisStore creates ClickHouse analysis storage.
func NewCHAnalysisStore(db *sql.DB, table string) repository.AnalysisStore {
	return &CHAnalysisStore{db: db, table: table}
}

func (s *CHAnalysisStore) Insert(ctx context.Context, rec *models.AnalysisRecord) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	inds, err := json.Marshal(rec.Indicators)
	if err != nil {
		return fmt.Errorf("encode indicators: %w", err)
	}
	mas, err := json.Marshal(rec.MovingAverages)
	if err != nil {
		return fmt.Errorf("encode moving averages: %w", err)
	}
	pivots, err := json.Marshal(rec.PivotPoints)
	if err != nil {
		return fmt.Errorf("encode pivot points: %w", err)
	}
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	q := fmt.Sprintf(`INSERT INTO %s
        (symbol, scraped_at, price, price_change, price_change_percent, market_cap, volume_24h,
         price_unavailable, overall, ti_summary, ma_summary,
         technical_indicators, moving_averages, pivot_points,
         partial, warnings, provider, exchange, interval, data_points)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err = s.db.ExecContext(ctx, q,
		rec.Symbol,
		rec.ScrapedAt,
		rec.Price,
		rec.PriceChange,
		rec.PriceChangePercent,
		rec.MarketCap,
		rec.Volume24h,
		boolToUInt8(rec.PriceUnavailable),
		rec.Summary.Overall,
		rec.Summary.TechnicalIndicators,
		rec.Summary.MovingAverages,
		string(inds),
		string(mas),
		string(pivots),
		boolToUInt8(rec.Partial),
		string(warnings),
		rec.Source.Provider,
		rec.Source.Exchange,
		rec.Source.Interval,
		uint32(rec.Source.DataPoints),
	)
	return err
}

func (s *CHAnalysisStore) Latest(ctx context.Context, symbol string, limit int) ([]*models.AnalysisRecord, error) {
	q := fmt.Sprintf(`SELECT symbol, scraped_at, price, price_change, price_change_percent,
        market_cap, volume_24h, price_unavailable, overall, ti_summary, ma_summary,
        technical_indicators, moving_averages, pivot_points, partial, warnings,
        provider, exchange, interval, data_points
        FROM %s`, s.table)
	args := []interface{}{}
	if symbol != "" {
		q += " WHERE symbol = ?"
		args = append(args, symbol)
	}
	q += " ORDER BY scraped_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.AnalysisRecord
	for rows.Next() {
		var (
			rec            models.AnalysisRecord
			ts             time.Time
			priceUnavail   uint8
			partial        uint8
			inds, mas      string
			pivots, warns  string
			dataPoints     uint32
		)
		if err := rows.Scan(
			&rec.Symbol, &ts, &rec.Price, &rec.PriceChange, &rec.PriceChangePercent,
			&rec.MarketCap, &rec.Volume24h, &priceUnavail,
			&rec.Summary.Overall, &rec.Summary.TechnicalIndicators, &rec.Summary.MovingAverages,
			&inds, &mas, &pivots, &partial, &warns,
			&rec.Source.Provider, &rec.Source.Exchange, &rec.Source.Interval, &dataPoints,
		); err != nil {
			return nil, err
		}
		rec.ScrapedAt = ts
		rec.PriceUnavailable = priceUnavail != 0
		rec.Partial = partial != 0
		rec.Source.DataPoints = int(dataPoints)
		if err := json.Unmarshal([]byte(inds), &rec.Indicators); err != nil {
			return nil, fmt.Errorf("decode indicators: %w", err)
		}
		if err := json.Unmarshal([]byte(mas), &rec.MovingAverages); err != nil {
			return nil, fmt.Errorf("decode moving averages: %w", err)
		}
		if err := json.Unmarshal([]byte(pivots), &rec.PivotPoints); err != nil {
			return nil, fmt.Errorf("decode pivot points: %w", err)
		}
		if err := json.Unmarshal([]byte(warns), &rec.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (s *CHAnalysisStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHAnalysisStore) Close() error {
	return nil // Managed by pkg
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// KafkaPublisher implements Publisher for Kafka: analysis records on one
// topic, ingested candles on another.
type KafkaPublisher struct {
	producer     *pkgkafka.Producer
	recordsTopic string
	candlesTopic string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, recordsTopic, candlesTopic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, recordsTopic: recordsTopic, candlesTopic: candlesTopic}
}

func (p *KafkaPublisher) PublishRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	return p.producer.Publish(ctx, p.recordsTopic, []byte(rec.Symbol), rec)
}

func (p *KafkaPublisher) PublishCandle(ctx context.Context, c *models.Candle) error {
	return p.producer.Publish(ctx, p.candlesTopic, []byte(c.Symbol), candleMessage(c))
}

func (p *KafkaPublisher) PublishCandleBatch(ctx context.Context, cs []*models.Candle) error {
	if len(cs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(cs))
	for i, c := range cs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(c.Symbol),
			Value: candleMessage(c),
		}
	}
	return p.producer.PublishBatch(ctx, p.candlesTopic, msgs)
}

func candleMessage(c *models.Candle) map[string]interface{} {
	return map[string]interface{}{
		"symbol": c.Symbol,
		"t":      c.Bucket.Unix(),
		"o":      c.Open,
		"h":      c.High,
		"l":      c.Low,
		"c":      c.Close,
		"v":      c.Volume,
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
