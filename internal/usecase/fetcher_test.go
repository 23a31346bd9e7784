package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
	dsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return nil
}

// fakeSource fails each entry a configured number of times before
// answering. Entries are keyed by indicator name plus the EMA period.
type fakeSource struct {
	mu        sync.Mutex
	calls     map[string]int
	failTimes map[string]int
	failErr   error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls:     make(map[string]int),
		failTimes: make(map[string]int),
		failErr:   &models.TransientFetchError{Indicator: "x", Err: errors.New("timeout")},
	}
}

func sourceKey(name string, params map[string]any) string {
	if name == "ema" {
		return fmt.Sprintf("ema%v", params["period"])
	}
	return name
}

func (s *fakeSource) FetchIndicator(ctx context.Context, symbol, exchange, interval, name string, params map[string]any) (dsvc.IndicatorValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sourceKey(name, params)
	s.calls[key]++
	if s.calls[key] <= s.failTimes[key] {
		return dsvc.IndicatorValue{}, s.failErr
	}
	return dsvc.IndicatorValue{Value: 42, MACD: 1, MACDSignal: 0.5, MACDHist: 0.5, K: 55, Close: 100}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestFetcher(t *testing.T, src dsvc.IndicatorSource, clock *fakeClock, retryMax int) *RateLimitedFetcher {
	t.Helper()
	limiter := ratelimit.New(0, 100000, clock)
	return NewRateLimitedFetcher(src, limiter, clock, retryMax, time.Minute, "binance", "1h", testLogger(t))
}

func TestFetchAllResolvesWholeCatalog(t *testing.T) {
	src := newFakeSource()
	f := newTestFetcher(t, src, newFakeClock(), 5)

	attempts, err := f.FetchAll(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 12 {
		t.Fatalf("expected 12 attempts, got %d", len(attempts))
	}
	for _, a := range attempts {
		if a.State != FetchSucceeded {
			t.Fatalf("%s not resolved: %s", a.Spec.Name, a.State)
		}
		if a.Attempts != 1 {
			t.Fatalf("%s took %d attempts, expected 1", a.Spec.Name, a.Attempts)
		}
	}
}

func TestFetchAllRetriesOnlyMissing(t *testing.T) {
	src := newFakeSource()
	src.failTimes["rsi"] = 2
	f := newTestFetcher(t, src, newFakeClock(), 5)

	attempts, err := f.FetchAll(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range attempts {
		if a.Spec.Key == "rsi" {
			if a.State != FetchSucceeded {
				t.Fatalf("rsi should resolve on third call, got %s", a.State)
			}
			if a.Attempts != 3 {
				t.Fatalf("rsi took %d attempts, expected 3", a.Attempts)
			}
			continue
		}
		// resolved entries must never be re-fetched
		if a.Attempts != 1 {
			t.Fatalf("%s re-fetched: %d attempts", a.Spec.Name, a.Attempts)
		}
	}
}

func TestFetchAllBudgetExhaustion(t *testing.T) {
	src := newFakeSource()
	src.failTimes["cmf"] = 100
	f := newTestFetcher(t, src, newFakeClock(), 2)

	attempts, err := f.FetchAll(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("exhausted budget must not be a hard error, got %v", err)
	}
	var cmf *FetchAttempt
	for _, a := range attempts {
		if a.Spec.Key == "cmf" {
			cmf = a
		}
	}
	if cmf.State != FetchFailed {
		t.Fatalf("expected FAILED, got %s", cmf.State)
	}
	if cmf.Attempts != 3 {
		t.Fatalf("expected 3 attempts (first pass + 2 retries), got %d", cmf.Attempts)
	}

	warnings := Warnings(attempts)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "CMF(20)") {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestFetchAllQuotaErrorDoesNotAbort(t *testing.T) {
	src := newFakeSource()
	src.failTimes["obv"] = 1
	src.failErr = models.ErrQuotaExceeded
	f := newTestFetcher(t, src, newFakeClock(), 3)

	attempts, err := f.FetchAll(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range attempts {
		if a.State != FetchSucceeded {
			t.Fatalf("%s not resolved after quota retry: %s", a.Spec.Name, a.State)
		}
	}
}

func TestFetchAllContextCancelled(t *testing.T) {
	src := newFakeSource()
	f := newTestFetcher(t, src, newFakeClock(), 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.FetchAll(ctx, "BTC")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchStateString(t *testing.T) {
	if FetchPending.String() != "PENDING" || FetchSucceeded.String() != "SUCCEEDED" {
		t.Fatalf("unexpected state strings")
	}
}
