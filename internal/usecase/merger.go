package usecase

import (
	"CoinPulse/internal/domain/models"
)

// MergeSnapshot folds a spot-price snapshot into an analysis record. It is
// pure: the input record is copied, never mutated, so merging the same
// snapshot twice yields the same record. A nil snapshot marks the record
// price-unavailable with zeroed price fields; the indicator payload is
// kept either way.
func MergeSnapshot(rec models.AnalysisRecord, snap *models.Snapshot) models.AnalysisRecord {
	if snap == nil {
		rec.Price = 0
		rec.PriceChange = 0
		rec.PriceChangePercent = 0
		rec.MarketCap = 0
		rec.Volume24h = 0
		rec.PriceUnavailable = true
		return rec
	}
	rec.Price = snap.Price
	rec.PriceChange = snap.PriceChange24h
	rec.PriceChangePercent = snap.ChangePercent24h
	rec.MarketCap = snap.MarketCap
	rec.Volume24h = snap.Volume24h
	rec.PriceUnavailable = false
	return rec
}
