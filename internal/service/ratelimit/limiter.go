// Package ratelimit gates calls against the quota-constrained remote
// indicator provider. One Limiter instance is shared by every symbol
// cycle so the provider's daily quota holds cumulatively, not per symbol.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"CoinPulse/internal/domain/repository"
)

// Limiter combines a minimum inter-call interval with a daily token
// bucket. It is an injected value, never a package singleton, so cycles
// can share one instance deterministically and tests can drive it with a
// fake clock.
type Limiter struct {
	mu sync.Mutex

	clock       repository.Clock
	minInterval time.Duration
	penalty     time.Duration // widened spacing after a quota rejection

	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	lastCall   time.Time
}

// New creates a limiter enforcing minInterval between any two calls and a
// dailyQuota token bucket refilled continuously over 24h.
func New(minInterval time.Duration, dailyQuota int, clock repository.Clock) *Limiter {
	if clock == nil {
		clock = SystemClock{}
	}
	if dailyQuota <= 0 {
		// no quota configured: one call per second is effectively unbounded
		// for a provider already spaced by minInterval
		dailyQuota = 86400
	}
	return &Limiter{
		clock:       clock,
		minInterval: minInterval,
		tokens:      float64(dailyQuota),
		capacity:    float64(dailyQuota),
		refillRate:  float64(dailyQuota) / (24 * 60 * 60),
		lastRefill:  clock.Now(),
	}
}

// Acquire blocks until the min-interval window has passed and a quota
// token is available, then consumes one token. It returns early with the
// context error if ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.clock.Now()
		l.refill(now)

		wait := l.nextWait(now)
		if wait <= 0 && l.tokens >= 1 {
			l.tokens--
			l.lastCall = now
			// penalty applies to one spaced call, then resets
			l.penalty = 0
			l.mu.Unlock()
			return nil
		}
		if wait <= 0 {
			// out of tokens: wait for the bucket to refill one
			wait = time.Duration((1 - l.tokens) / l.refillRate * float64(time.Second))
			if wait <= 0 {
				wait = time.Second
			}
		}
		l.mu.Unlock()

		if err := l.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Backoff widens the spacing before the next call. Used when the provider
// answers with a quota rejection, so the shared window backs off rather
// than the per-indicator retry delay.
func (l *Limiter) Backoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.penalty == 0 {
		l.penalty = l.minInterval
	} else if l.penalty < 8*l.minInterval {
		l.penalty *= 2
	}
}

// Remaining reports the tokens left in the daily bucket.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill(l.clock.Now())
	return int(l.tokens)
}

func (l *Limiter) nextWait(now time.Time) time.Duration {
	if l.lastCall.IsZero() {
		return 0
	}
	return l.lastCall.Add(l.minInterval + l.penalty).Sub(now)
}

func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	l.tokens += elapsed * l.refillRate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastRefill = now
}
