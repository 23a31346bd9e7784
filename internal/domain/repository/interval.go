package repository

import "time"

// Interval represents candle resolution buckets.
type Interval string

const (
	IV1h Interval = "1h"
	IV4h Interval = "4h"
	IV1d Interval = "1d"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV1h, IV4h, IV1d:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default candle interval.
func DefaultInterval() Interval { return IV1h }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// Duration returns the wall-clock width of one candle bucket.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case IV4h:
		return 4 * time.Hour
	case IV1d:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}
