package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	dsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/indicators"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/pkg/logger"
)

// FetchState is the lifecycle position of one per-indicator fetch.
type FetchState int

const (
	FetchPending FetchState = iota
	FetchFetching
	FetchSucceeded
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchPending:
		return "PENDING"
	case FetchFetching:
		return "FETCHING"
	case FetchSucceeded:
		return "SUCCEEDED"
	case FetchFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// FetchAttempt tracks one catalog entry through a cycle: its state, how
// many calls were spent on it, and the value or terminal error.
type FetchAttempt struct {
	Spec     indicators.Spec
	State    FetchState
	Attempts int
	Value    dsvc.IndicatorValue
	Err      error
}

// RateLimitedFetcher pulls the indicator catalog from a quota-constrained
// remote source, one call at a time through a shared limiter. A first pass
// covers every entry; entries that failed are retried as a subset, up to
// retryMax extra passes with retryPause between them. Entries that
// succeeded are never re-fetched.
type RateLimitedFetcher struct {
	src        dsvc.IndicatorSource
	limiter    *ratelimit.Limiter
	clock      drepo.Clock
	retryMax   int
	retryPause time.Duration
	exchange   string
	interval   string
	log        *logger.Logger
}

// NewRateLimitedFetcher creates a fetcher. The limiter is shared across
// all fetchers so concurrent symbol cycles still honor the provider's
// minimum call spacing.
func NewRateLimitedFetcher(
	src dsvc.IndicatorSource,
	limiter *ratelimit.Limiter,
	clock drepo.Clock,
	retryMax int,
	retryPause time.Duration,
	exchange, interval string,
	log *logger.Logger,
) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		src:        src,
		limiter:    limiter,
		clock:      clock,
		retryMax:   retryMax,
		retryPause: retryPause,
		exchange:   exchange,
		interval:   interval,
		log:        log,
	}
}

// FetchAll runs the state machine for one symbol. It returns an attempt
// per catalog entry; callers read SUCCEEDED values and surface the rest as
// warnings. The only hard errors are context cancellation and quota
// exhaustion mid-cycle.
func (f *RateLimitedFetcher) FetchAll(ctx context.Context, symbol string) ([]*FetchAttempt, error) {
	specs := fetchSpecs()
	attempts := make([]*FetchAttempt, len(specs))
	for i, spec := range specs {
		attempts[i] = &FetchAttempt{Spec: spec, State: FetchPending}
	}

	for pass := 0; pass <= f.retryMax; pass++ {
		missing := pendingOrFailed(attempts)
		if len(missing) == 0 {
			break
		}
		if pass > 0 {
			f.log.Info("retrying missing indicators",
				logger.String("symbol", symbol),
				logger.Int("pass", pass),
				logger.Int("missing", len(missing)))
			if err := f.clock.Sleep(ctx, f.retryPause); err != nil {
				return attempts, err
			}
		}
		for _, a := range missing {
			if err := f.fetchOne(ctx, symbol, a); err != nil {
				return attempts, err
			}
		}
	}
	return attempts, nil
}

// fetchOne takes one limiter token and makes one call. Transient failures
// park the attempt in FAILED for a later pass; a 429 additionally widens
// the shared limiter window. Only context errors propagate.
func (f *RateLimitedFetcher) fetchOne(ctx context.Context, symbol string, a *FetchAttempt) error {
	if err := f.limiter.Acquire(ctx); err != nil {
		return err
	}
	a.State = FetchFetching
	a.Attempts++

	v, err := f.src.FetchIndicator(ctx, symbol, f.exchange, f.interval, a.Spec.Key, a.Spec.Params)
	if err != nil {
		if ctx.Err() != nil {
			a.State = FetchFailed
			a.Err = err
			return ctx.Err()
		}
		if errors.Is(err, models.ErrQuotaExceeded) {
			f.limiter.Backoff()
		}
		a.State = FetchFailed
		a.Err = err
		f.log.Warn("indicator fetch failed",
			logger.String("symbol", symbol),
			logger.String("indicator", a.Spec.Key),
			logger.Int("attempt", a.Attempts),
			logger.Error(err))
		return nil
	}
	a.State = FetchSucceeded
	a.Value = v
	a.Err = nil
	return nil
}

// fetchSpecs is the full remote catalog: the nine technical indicators
// plus one EMA call per moving-average period.
func fetchSpecs() []indicators.Spec {
	specs := indicators.Catalog()
	for _, p := range indicators.MAPeriods {
		specs = append(specs, indicators.Spec{
			Name:     fmt.Sprintf("MA%d", p),
			Key:      "ema",
			Params:   map[string]any{"period": p},
			Lookback: p + 1,
			Kind:     models.KindValue,
		})
	}
	return specs
}

func pendingOrFailed(attempts []*FetchAttempt) []*FetchAttempt {
	var out []*FetchAttempt
	for _, a := range attempts {
		if a.State == FetchPending || a.State == FetchFailed {
			out = append(out, a)
		}
	}
	return out
}

// Warnings summarizes the unresolved entries of a finished cycle.
func Warnings(attempts []*FetchAttempt) []string {
	var out []string
	for _, a := range attempts {
		if a.State != FetchSucceeded {
			out = append(out, fmt.Sprintf("%s: unresolved after %d attempts: %v", a.Spec.Name, a.Attempts, a.Err))
		}
	}
	return out
}
