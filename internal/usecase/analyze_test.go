package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/signal"
)

type fakeCandleStore struct {
	candles []models.Candle
	err     error
}

func (s *fakeCandleStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, iv drepo.Interval) ([]models.Candle, error) {
	return s.candles, s.err
}

func (s *fakeCandleStore) GetLatestNCandles(ctx context.Context, symbol string, n int, iv drepo.Interval) ([]models.Candle, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.candles) > n {
		return s.candles[len(s.candles)-n:], nil
	}
	return s.candles, nil
}

type fakeSnapshots struct {
	snap models.Snapshot
	err  error
}

func (s *fakeSnapshots) GetSnapshot(ctx context.Context, symbol string) (models.Snapshot, error) {
	return s.snap, s.err
}

type fakeMetrics struct {
	mu         sync.Mutex
	errors     map[string]int
	lastPrices map[string]float64
	resolved   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		errors:     make(map[string]int),
		lastPrices: make(map[string]float64),
		resolved:   make(map[string]int),
	}
}

func (m *fakeMetrics) RecordRecordStored(backend, symbol string) {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrices[symbol] = price
}

func (m *fakeMetrics) RecordLatency(op string, seconds float64) {}

func (m *fakeMetrics) RecordIndicatorsResolved(symbol string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved[symbol] = n
}

func newLocalAnalyzer(t *testing.T, store drepo.CandleStore, snaps *fakeSnapshots, m *fakeMetrics) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(store, nil, snaps, nil, m, newFakeClock(), testLogger(t),
		SourceLocal, "binance", drepo.IV1h, 8)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}
	return a
}

func TestAnalyzeSymbolLocalUptrend(t *testing.T) {
	store := &fakeCandleStore{candles: uptrendCandles(300)}
	snaps := &fakeSnapshots{snap: models.Snapshot{Symbol: "BTC", Price: 64000, Volume24h: 1e9}}
	m := newFakeMetrics()
	a := newLocalAnalyzer(t, store, snaps, m)

	rec, err := a.AnalyzeSymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Resolved() != 12 {
		t.Fatalf("expected all 12 entries, got %d (%v)", rec.Resolved(), rec.Warnings)
	}
	if rec.Partial {
		t.Fatalf("full catalog must not flag partial")
	}
	if rec.Summary.Overall != signal.LabelBuy {
		t.Fatalf("uptrend overall should read Buy, got %s", rec.Summary.Overall)
	}
	if rec.Summary.MovingAverages != signal.LabelStrongBuy {
		t.Fatalf("unanimous ema stack should read Strong Buy, got %s", rec.Summary.MovingAverages)
	}
	if rec.Price != 64000 || rec.PriceUnavailable {
		t.Fatalf("snapshot not merged: %+v", rec)
	}
	if rec.Source.Provider != "local" || rec.Source.Interval != "1h" {
		t.Fatalf("unexpected source metadata: %+v", rec.Source)
	}
	if m.lastPrices["BTC"] != 64000 {
		t.Fatalf("last price not recorded")
	}
	if m.resolved["BTC"] != 12 {
		t.Fatalf("resolved gauge not recorded")
	}
}

func TestAnalyzeSymbolSnapshotFailure(t *testing.T) {
	store := &fakeCandleStore{candles: uptrendCandles(300)}
	snaps := &fakeSnapshots{err: errors.New("upstream 503")}
	m := newFakeMetrics()
	a := newLocalAnalyzer(t, store, snaps, m)

	rec, err := a.AnalyzeSymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("snapshot failure must degrade, not fail: %v", err)
	}
	if !rec.PriceUnavailable {
		t.Fatalf("expected price-unavailable record")
	}
	if rec.Price != 0 || rec.MarketCap != 0 {
		t.Fatalf("price fields must be zeroed: %+v", rec)
	}
	if rec.Resolved() != 12 {
		t.Fatalf("indicators must survive a snapshot failure")
	}
	found := false
	for _, w := range rec.Warnings {
		if strings.Contains(w, "price unavailable") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected price warning, got %v", rec.Warnings)
	}
	if m.errors["snapshot"] != 1 {
		t.Fatalf("snapshot error not counted")
	}
}

func TestAnalyzeSymbolPartial(t *testing.T) {
	// 20 candles resolve only the short-lookback entries
	store := &fakeCandleStore{candles: uptrendCandles(20)}
	snaps := &fakeSnapshots{snap: models.Snapshot{Price: 100}}
	a := newLocalAnalyzer(t, store, snaps, newFakeMetrics())

	rec, err := a.AnalyzeSymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Partial {
		t.Fatalf("expected partial flag with %d resolved", rec.Resolved())
	}
	found := false
	for _, w := range rec.Warnings {
		if strings.Contains(w, "partial:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected partial warning, got %v", rec.Warnings)
	}
}

func TestAnalyzeSymbolUnsupported(t *testing.T) {
	a := newLocalAnalyzer(t, &fakeCandleStore{}, &fakeSnapshots{}, newFakeMetrics())
	_, err := a.AnalyzeSymbol(context.Background(), "NOPE")
	var fatal *models.FatalConfigError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected fatal config error, got %v", err)
	}
}

func TestNewAnalyzerValidatesSource(t *testing.T) {
	m := newFakeMetrics()
	_, err := NewAnalyzer(nil, nil, &fakeSnapshots{}, nil, m, newFakeClock(), testLogger(t),
		"csv", "binance", drepo.IV1h, 8)
	var fatal *models.FatalConfigError
	if !errors.As(err, &fatal) {
		t.Fatalf("unknown source must be fatal, got %v", err)
	}

	_, err = NewAnalyzer(nil, nil, &fakeSnapshots{}, nil, m, newFakeClock(), testLogger(t),
		SourceLocal, "binance", drepo.IV1h, 8)
	if !errors.As(err, &fatal) {
		t.Fatalf("local source without a store must be fatal, got %v", err)
	}
}

func TestRunCycleSkipsFailedSymbols(t *testing.T) {
	store := &fakeCandleStore{candles: uptrendCandles(300)}
	snaps := &fakeSnapshots{snap: models.Snapshot{Price: 100}}
	m := newFakeMetrics()
	a := newLocalAnalyzer(t, store, snaps, m)

	recs := a.RunCycle(context.Background(), []string{"BTC", "NOPE", "ETH"})
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if m.errors["analyze"] != 1 {
		t.Fatalf("failed symbol not counted")
	}
}

func TestAnalyzeSymbolRemoteAllFailures(t *testing.T) {
	src := newFakeSource()
	for _, key := range []string{"rsi", "macd", "bbands", "obv", "stochrsi", "atr", "vwap", "supertrend", "cmf", "ema20", "ema50", "ema200"} {
		src.failTimes[key] = 100
	}
	fetcher := newTestFetcher(t, src, newFakeClock(), 2)
	snaps := &fakeSnapshots{snap: models.Snapshot{Price: 100}}
	a, err := NewAnalyzer(nil, fetcher, snaps, nil, newFakeMetrics(), newFakeClock(), testLogger(t),
		SourceTaapi, "binance", drepo.IV1h, 8)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}

	rec, err := a.AnalyzeSymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("all-failed fetches must still emit a record: %v", err)
	}
	if rec.Resolved() != 0 {
		t.Fatalf("expected no resolved entries, got %d", rec.Resolved())
	}
	if !rec.Partial {
		t.Fatalf("expected partial flag")
	}
	if rec.PriceUnavailable {
		t.Fatalf("snapshot succeeded, record must carry the price")
	}
	if len(rec.Warnings) < 12 {
		t.Fatalf("expected a warning per unresolved entry, got %v", rec.Warnings)
	}
}

func TestAnalyzeSymbolRemoteClassification(t *testing.T) {
	src := newFakeSource()
	fetcher := newTestFetcher(t, src, newFakeClock(), 2)
	snaps := &fakeSnapshots{snap: models.Snapshot{Price: 100}}
	a, err := NewAnalyzer(nil, fetcher, snaps, nil, newFakeMetrics(), newFakeClock(), testLogger(t),
		SourceTaapi, "binance", drepo.IV1h, 8)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}

	rec, err := a.AnalyzeSymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Resolved() != 12 {
		t.Fatalf("expected 12 resolved, got %d", rec.Resolved())
	}
	if rec.Source.Provider != "taapi.io" {
		t.Fatalf("expected taapi.io provider, got %s", rec.Source.Provider)
	}
	for _, r := range rec.Indicators {
		if r.Name == "MACD(12,26)" {
			if r.Signal != models.SignalBullish {
				t.Fatalf("macd above signal should lean bullish, got %s", r.Signal)
			}
			if r.Histogram == nil {
				t.Fatalf("macd must carry histogram")
			}
		}
	}
	for _, ma := range rec.MovingAverages {
		// close 100 above value 42
		if ma.Signal != models.SignalBuy {
			t.Fatalf("%s expected Buy, got %s", ma.Name, ma.Signal)
		}
	}
}
