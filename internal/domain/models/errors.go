package models

import (
	"errors"
	"fmt"
)

// Error taxonomy for the analysis pipeline. Indicator-level failures are
// isolated and never abort a cycle; only config errors are fatal.
var (
	// ErrInsufficientHistory: not enough candles for an indicator's
	// lookback. The indicator is omitted, not retried.
	ErrInsufficientHistory = errors.New("insufficient candle history")

	// ErrQuotaExceeded: the remote source rejected the call with a rate
	// limit (HTTP 429). Transient, but backs off the shared limiter.
	ErrQuotaExceeded = errors.New("remote quota exceeded")

	// ErrPriceUnavailable: the snapshot fetch failed or timed out. The
	// record is still emitted with zero-filled price fields.
	ErrPriceUnavailable = errors.New("price snapshot unavailable")
)

// TransientFetchError wraps a remote failure (timeout, 5xx) that the
// rate-limited fetcher may retry.
type TransientFetchError struct {
	Indicator string
	Err       error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("transient fetch %s: %v", e.Indicator, e.Err)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

// FatalConfigError aborts a cycle before any fetch or computation begins:
// unknown symbol, malformed catalog.
type FatalConfigError struct {
	Reason string
}

func (e *FatalConfigError) Error() string {
	return "fatal config: " + e.Reason
}

// IsTransient reports whether err should re-enter the retry loop.
func IsTransient(err error) bool {
	var te *TransientFetchError
	return errors.As(err, &te) || errors.Is(err, ErrQuotaExceeded)
}
