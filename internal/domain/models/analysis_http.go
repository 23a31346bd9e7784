package models

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type LatestAnalysisRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	Limit  int    `query:"limit" json:"limit" default:"1" validate:"gte=1,lte=500"`
}

// AnalyzeRequest triggers an on-demand cycle. An empty or "all" symbol
// analyzes every configured symbol.
type AnalyzeRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	Async  bool   `query:"async" json:"async"`
}

type CandlesRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	From     string `query:"from" json:"from"`
	To       string `query:"to" json:"to"`
	Interval string `query:"interval" json:"interval" default:"1h" validate:"oneof=1h 4h 1d"`
	Limit    int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}
