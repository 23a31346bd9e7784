package usecase

import (
	"context"

	"CoinPulse/pkg/logger"
	"CoinPulse/pkg/queue"
)

// AnalyzeJobType is the message type consumed by AnalyzeJob.
const AnalyzeJobType = "analysis.analyze_symbol"

// AnalyzeJobPayload carries the symbol to analyze.
type AnalyzeJobPayload struct {
	Symbol string `json:"symbol"`
}

// AnalyzeJob runs a full analysis of one symbol off the queue. It backs
// the async variant of the analyze endpoint so slow remote fetches do
// not hold an HTTP connection open.
type AnalyzeJob struct {
	analyzer *Analyzer
	logger   *logger.Logger
}

func NewAnalyzeJob(analyzer *Analyzer, lgr *logger.Logger) *AnalyzeJob {
	return &AnalyzeJob{analyzer: analyzer, logger: lgr}
}

func (j *AnalyzeJob) Name() string { return "analyze_symbol" }

func (j *AnalyzeJob) Type() string { return AnalyzeJobType }

func (j *AnalyzeJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[AnalyzeJobPayload](payload)
	if err != nil {
		return err
	}

	rec, err := j.analyzer.AnalyzeSymbol(ctx, p.Symbol)
	if err != nil {
		return err
	}

	j.logger.Info("queued analysis complete",
		logger.String("symbol", rec.Symbol),
		logger.String("overall", rec.Summary.Overall),
		logger.Int("resolved", rec.Resolved()))
	return nil
}

var _ queue.Job = (*AnalyzeJob)(nil)
