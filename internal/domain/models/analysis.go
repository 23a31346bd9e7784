package models

import "time"

// Summary rolls per-indicator signals up into category recommendations.
type Summary struct {
	Overall             string `json:"overall"`
	TechnicalIndicators string `json:"technicalIndicators"`
	MovingAverages      string `json:"movingAverages"`
}

// SourceMetadata identifies where a record's data came from.
type SourceMetadata struct {
	Provider   string `json:"provider"` // "local" or "taapi.io"
	Exchange   string `json:"exchange,omitempty"`
	Interval   string `json:"interval"`
	DataPoints int    `json:"dataPoints,omitempty"`
}

// AnalysisRecord is the canonical per-(symbol, cycle) output: indicator
// results merged with the spot price snapshot. Immutable once emitted;
// ownership passes to the persistence backend.
type AnalysisRecord struct {
	Symbol             string             `json:"symbol"`
	Price              float64            `json:"price"`
	PriceChange        float64            `json:"priceChange"`
	PriceChangePercent float64            `json:"priceChangePercent"`
	MarketCap          float64            `json:"marketCap"`
	Volume24h          float64            `json:"volume24h"`
	PriceUnavailable   bool               `json:"priceUnavailable"`
	Summary            Summary            `json:"summary"`
	Indicators         []IndicatorResult  `json:"technicalIndicators"`
	MovingAverages     []MovingAverage    `json:"movingAverages"`
	PivotPoints        []PivotPoints      `json:"pivotPoints"`
	Partial            bool               `json:"partial"`
	Warnings           []string           `json:"warnings,omitempty"`
	Source             SourceMetadata     `json:"metadata"`
	ScrapedAt          time.Time          `json:"scrapedAt"`
}

// Resolved reports how many catalog entries (indicators plus moving
// averages) produced a result.
func (r *AnalysisRecord) Resolved() int {
	return len(r.Indicators) + len(r.MovingAverages)
}
