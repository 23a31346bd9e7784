package util

import (
	"strconv"
	"time"
)

// ParseTime accepts RFC3339, RFC3339Nano or unix seconds.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault returns def when s is empty or unparseable.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// AlignFromTo truncates both ends of a range to the interval's bucket size.
// Unknown intervals fall back to hourly buckets.
func AlignFromTo(from, to time.Time, interval string) (time.Time, time.Time) {
	bucket := time.Hour
	switch interval {
	case "4h":
		bucket = 4 * time.Hour
	case "1d":
		bucket = 24 * time.Hour
	}
	return from.Truncate(bucket), to.Truncate(bucket)
}
