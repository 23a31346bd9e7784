package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
)

type captureProc struct {
	mu      sync.Mutex
	candles []*models.Candle
	err     error
}

func (p *captureProc) Process(ctx context.Context, c *models.Candle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.candles = append(p.candles, c)
	return nil
}

func (p *captureProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.candles)
}

type countMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newCountMetrics() *countMetrics {
	return &countMetrics{errors: make(map[string]int)}
}

func (m *countMetrics) RecordRecordStored(backend, symbol string) {}
func (m *countMetrics) RecordLastPrice(symbol string, price float64) {}
func (m *countMetrics) RecordLatency(op string, seconds float64)     {}
func (m *countMetrics) RecordIndicatorsResolved(symbol string, n int) {}

func (m *countMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *countMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func candleAt(symbol string, bucket time.Time) *models.Candle {
	return &models.Candle{
		Bucket: bucket,
		Symbol: symbol,
		Open:   100, High: 101, Low: 99, Close: 100.5, Volume: 10,
	}
}

func TestPipelineForwardsValidCandle(t *testing.T) {
	proc := &captureProc{}
	p := NewRealtimePipeline(proc, newCountMetrics())

	c := candleAt("BTC", time.Now())
	if err := p.Process(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("candle not forwarded")
	}
}

func TestPipelineRejectsInvalid(t *testing.T) {
	proc := &captureProc{}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m)
	ctx := context.Background()

	if err := p.Process(ctx, nil); err == nil {
		t.Fatalf("nil candle must be rejected")
	}
	if err := p.Process(ctx, &models.Candle{Bucket: time.Now()}); err == nil {
		t.Fatalf("empty symbol must be rejected")
	}
	bad := candleAt("BTC", time.Now())
	bad.High, bad.Low = bad.Low, bad.High
	if err := p.Process(ctx, bad); err == nil {
		t.Fatalf("high below low must be rejected")
	}
	if m.errCount("pipeline_validate") != 3 {
		t.Fatalf("validation errors not counted: %d", m.errCount("pipeline_validate"))
	}
	if proc.count() != 0 {
		t.Fatalf("invalid candles must not reach downstream")
	}
}

func TestPipelineDeduplicatesBuckets(t *testing.T) {
	proc := &captureProc{}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m)
	ctx := context.Background()
	bkt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	if err := p.Process(ctx, candleAt("BTC", bkt)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// same bucket again: dropped without error
	if err := p.Process(ctx, candleAt("BTC", bkt)); err != nil {
		t.Fatalf("duplicate must drop silently, got %v", err)
	}
	// older bucket: also dropped
	if err := p.Process(ctx, candleAt("BTC", bkt.Add(-time.Hour))); err != nil {
		t.Fatalf("stale bucket must drop silently, got %v", err)
	}
	// other symbols keep their own watermark
	if err := p.Process(ctx, candleAt("ETH", bkt)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proc.count() != 2 {
		t.Fatalf("expected 2 forwarded, got %d", proc.count())
	}
	if m.errCount("pipeline_duplicate") != 2 {
		t.Fatalf("duplicates not counted: %d", m.errCount("pipeline_duplicate"))
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &captureProc{err: errors.New("clickhouse down")}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m, WithBufferSize(4))
	ctx := context.Background()

	if err := p.Process(ctx, candleAt("BTC", time.Now())); err == nil {
		t.Fatalf("downstream error must propagate")
	}
	if m.errCount("pipeline_process") != 1 {
		t.Fatalf("process error not counted")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("failed candle not buffered: %d", len(p.bufCh))
	}
}

func TestPipelineTransformHook(t *testing.T) {
	proc := &captureProc{}
	p := NewRealtimePipeline(proc, newCountMetrics(), WithTransform(func(c *models.Candle) *models.Candle {
		c.Symbol = "BTC"
		return c
	}))

	in := candleAt("BTCUSDT", time.Now())
	if err := p.Process(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.candles[0].Symbol != "BTC" {
		t.Fatalf("transform not applied: %s", proc.candles[0].Symbol)
	}
}

func TestPipelineFlushDrainsBuffer(t *testing.T) {
	proc := &captureProc{err: errors.New("down")}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m, WithBufferSize(4))
	ctx := context.Background()

	_ = p.Process(ctx, candleAt("BTC", time.Now()))

	// downstream recovers before the flusher runs
	proc.mu.Lock()
	proc.err = nil
	proc.mu.Unlock()

	p.Start(ctx)
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for proc.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("buffered candle never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
