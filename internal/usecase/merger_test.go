package usecase

import (
	"reflect"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
)

func baseRecord() models.AnalysisRecord {
	return models.AnalysisRecord{
		Symbol: "BTC",
		Indicators: []models.IndicatorResult{
			{Name: "RSI(14)", Value: 55, Signal: models.SignalNeutral},
		},
		Summary:   models.Summary{Overall: "Neutral"},
		ScrapedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMergeSnapshot(t *testing.T) {
	snap := &models.Snapshot{
		Symbol:           "BTC",
		Price:            64000,
		PriceChange24h:   1200,
		ChangePercent24h: 1.9,
		MarketCap:        1.2e12,
		Volume24h:        3.4e10,
	}
	rec := MergeSnapshot(baseRecord(), snap)
	if rec.Price != 64000 || rec.PriceChange != 1200 || rec.MarketCap != 1.2e12 {
		t.Fatalf("price fields not merged: %+v", rec)
	}
	if rec.PriceUnavailable {
		t.Fatalf("merged record must not be price-unavailable")
	}
	if len(rec.Indicators) != 1 {
		t.Fatalf("indicator payload must be kept")
	}
}

func TestMergeSnapshotNil(t *testing.T) {
	in := baseRecord()
	in.Price = 999 // stale value must be zeroed, not kept
	rec := MergeSnapshot(in, nil)
	if rec.Price != 0 || rec.PriceChange != 0 || rec.MarketCap != 0 || rec.Volume24h != 0 {
		t.Fatalf("nil snapshot must zero price fields: %+v", rec)
	}
	if !rec.PriceUnavailable {
		t.Fatalf("nil snapshot must mark price unavailable")
	}
	if len(rec.Indicators) != 1 {
		t.Fatalf("indicator payload must be kept")
	}
}

func TestMergeSnapshotIdempotent(t *testing.T) {
	snap := &models.Snapshot{Price: 100, Volume24h: 5}
	once := MergeSnapshot(baseRecord(), snap)
	twice := MergeSnapshot(once, snap)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent:\n%+v\n%+v", once, twice)
	}
}

func TestMergeSnapshotDoesNotMutateInput(t *testing.T) {
	in := baseRecord()
	_ = MergeSnapshot(in, &models.Snapshot{Price: 100})
	if in.Price != 0 {
		t.Fatalf("input record mutated")
	}
}
