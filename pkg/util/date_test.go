package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)

	got, ok := ParseTime("2024-10-10T10:10:10Z")
	if !ok || !got.Equal(want) {
		t.Fatalf("rfc3339: got %v ok=%v", got, ok)
	}

	got, ok = ParseTime(strconv.FormatInt(want.Unix(), 10))
	if !ok || got.Unix() != want.Unix() {
		t.Fatalf("unix: got %v ok=%v", got, ok)
	}

	if _, ok := ParseTime("not-a-time"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestAlignFromTo(t *testing.T) {
	from := time.Date(2024, 10, 10, 10, 37, 12, 0, time.UTC)
	to := time.Date(2024, 10, 11, 3, 14, 9, 0, time.UTC)

	gotFrom, gotTo := AlignFromTo(from, to, "1h")
	if gotFrom.Minute() != 0 || gotTo.Minute() != 0 {
		t.Fatalf("1h not aligned: %v %v", gotFrom, gotTo)
	}

	gotFrom, gotTo = AlignFromTo(from, to, "4h")
	if gotFrom.Hour()%4 != 0 || gotTo.Hour()%4 != 0 {
		t.Fatalf("4h not aligned: %v %v", gotFrom, gotTo)
	}

	gotFrom, _ = AlignFromTo(from, to, "1d")
	if gotFrom.Hour() != 0 {
		t.Fatalf("1d not aligned: %v", gotFrom)
	}
}
