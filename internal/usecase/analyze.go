package usecase

import (
	"context"
	"fmt"
	"sync"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	dsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/indicators"
	"CoinPulse/internal/signal"
	"CoinPulse/pkg/logger"
)

// Source selects where indicator values come from.
const (
	SourceLocal = "local"
	SourceTaapi = "taapi"
)

// Analyzer runs one analysis cycle per symbol: resolve the indicator
// catalog (computed locally from stored candles, or fetched from the
// remote provider), classify, aggregate, merge the price snapshot, and
// hand the record to the backend processor.
type Analyzer struct {
	candles   drepo.CandleStore
	fetcher   *RateLimitedFetcher
	snapshots dsvc.SnapshotSource
	proc      *RecordProcessor
	metrics   drepo.Metrics
	clock     drepo.Clock
	log       *logger.Logger

	source        string
	exchange      string
	interval      drepo.Interval
	minIndicators int
}

// NewAnalyzer creates an Analyzer. fetcher may be nil when source is
// local; candles may be nil when source is remote.
func NewAnalyzer(
	candles drepo.CandleStore,
	fetcher *RateLimitedFetcher,
	snapshots dsvc.SnapshotSource,
	proc *RecordProcessor,
	metrics drepo.Metrics,
	clock drepo.Clock,
	log *logger.Logger,
	source, exchange string,
	interval drepo.Interval,
	minIndicators int,
) (*Analyzer, error) {
	if err := indicators.ValidateCatalog(); err != nil {
		return nil, err
	}
	switch source {
	case SourceLocal:
		if candles == nil {
			return nil, &models.FatalConfigError{Reason: "local source requires a candle store"}
		}
	case SourceTaapi:
		if fetcher == nil {
			return nil, &models.FatalConfigError{Reason: "taapi source requires a fetcher"}
		}
	default:
		return nil, &models.FatalConfigError{Reason: "unknown indicator source " + source}
	}
	return &Analyzer{
		candles:       candles,
		fetcher:       fetcher,
		snapshots:     snapshots,
		proc:          proc,
		metrics:       metrics,
		clock:         clock,
		log:           log,
		source:        source,
		exchange:      exchange,
		interval:      interval,
		minIndicators: minIndicators,
	}, nil
}

// RunCycle analyzes every symbol. Symbols run concurrently; the shared
// rate limiter serializes remote fetches across them. Per-symbol failures
// are logged and skipped; a cycle never aborts because one symbol
// degraded. Record order follows the symbols argument.
func (a *Analyzer) RunCycle(ctx context.Context, symbols []string) []*models.AnalysisRecord {
	recs := make([]*models.AnalysisRecord, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			rec, err := a.AnalyzeSymbol(ctx, sym)
			if err != nil {
				if ctx.Err() == nil {
					a.metrics.RecordError("analyze")
					a.log.Error("symbol analysis failed", logger.String("symbol", sym), logger.Error(err))
				}
				return
			}
			recs[i] = rec
		}(i, sym)
	}
	wg.Wait()

	out := make([]*models.AnalysisRecord, 0, len(symbols))
	for _, rec := range recs {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// AnalyzeSymbol produces one record. The price snapshot is fetched
// concurrently with indicator resolution; a snapshot failure degrades the
// record (priceUnavailable) instead of failing it.
func (a *Analyzer) AnalyzeSymbol(ctx context.Context, symbol string) (*models.AnalysisRecord, error) {
	if !models.IsSupportedSymbol(symbol) {
		return nil, &models.FatalConfigError{Reason: "unsupported symbol " + symbol}
	}
	start := a.clock.Now()

	type snapResult struct {
		snap models.Snapshot
		err  error
	}
	snapCh := make(chan snapResult, 1)
	go func() {
		s, err := a.snapshots.GetSnapshot(ctx, symbol)
		snapCh <- snapResult{s, err}
	}()

	var calc Calculation
	var err error
	switch a.source {
	case SourceLocal:
		calc, err = a.computeLocal(ctx, symbol)
	case SourceTaapi:
		calc, err = a.fetchRemote(ctx, symbol)
	}
	if err != nil {
		return nil, err
	}

	rec := models.AnalysisRecord{
		Symbol:         symbol,
		Summary:        signal.Summarize(calc.Indicators, calc.MovingAverages),
		Indicators:     calc.Indicators,
		MovingAverages: calc.MovingAverages,
		PivotPoints:    calc.Pivots,
		Warnings:       calc.Warnings,
		Source: models.SourceMetadata{
			Provider:   a.providerName(),
			Exchange:   a.exchange,
			Interval:   string(a.interval),
			DataPoints: calc.DataPoints,
		},
		ScrapedAt: a.clock.Now().UTC(),
	}
	if rec.Resolved() < a.minIndicators {
		rec.Partial = true
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("partial: %d of %d indicators resolved", rec.Resolved(), indicators.CatalogSize()))
	}

	sr := <-snapCh
	if sr.err != nil {
		a.metrics.RecordError("snapshot")
		a.log.Warn("price snapshot unavailable", logger.String("symbol", symbol), logger.Error(sr.err))
		rec = MergeSnapshot(rec, nil)
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("price unavailable: %v", sr.err))
	} else {
		rec = MergeSnapshot(rec, &sr.snap)
		a.metrics.RecordLastPrice(symbol, rec.Price)
	}

	a.metrics.RecordIndicatorsResolved(symbol, rec.Resolved())
	a.metrics.RecordLatency("analyze", a.clock.Now().Sub(start).Seconds())

	if a.proc != nil {
		if err := a.proc.Process(ctx, &rec); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func (a *Analyzer) providerName() string {
	if a.source == SourceTaapi {
		return "taapi.io"
	}
	return "local"
}

func (a *Analyzer) computeLocal(ctx context.Context, symbol string) (Calculation, error) {
	cs, err := a.candles.GetLatestNCandles(ctx, symbol, indicators.MaxLookback+1, a.interval)
	if err != nil {
		return Calculation{}, fmt.Errorf("load candles: %w", err)
	}
	calc := Compute(cs)
	return calc, nil
}

func (a *Analyzer) fetchRemote(ctx context.Context, symbol string) (Calculation, error) {
	attempts, err := a.fetcher.FetchAll(ctx, symbol)
	if err != nil {
		return Calculation{}, err
	}
	calc := resultsFromAttempts(attempts)
	calc.Warnings = append(calc.Warnings, Warnings(attempts)...)
	return calc, nil
}

// resultsFromAttempts classifies the raw remote values. Price-relative
// classifiers use the close the provider echoes back; with no close on
// hand they stay Neutral rather than compare against zero.
func resultsFromAttempts(attempts []*FetchAttempt) Calculation {
	var calc Calculation
	for _, a := range attempts {
		if a.State != FetchSucceeded {
			continue
		}
		v := a.Value
		if a.Spec.Key == "ema" {
			period, _ := a.Spec.Params["period"].(int)
			ma := models.MovingAverage{
				Name:   a.Spec.Name,
				Type:   "Exponential",
				Period: period,
				Value:  v.Value,
				Signal: models.SignalNeutral,
			}
			if v.Close > 0 {
				ma.Signal = signal.ClassifyEMA(v.Close, v.Value)
			}
			calc.MovingAverages = append(calc.MovingAverages, ma)
			continue
		}

		res := models.IndicatorResult{Name: a.Spec.Name, Kind: a.Spec.Kind, Signal: models.SignalNeutral}
		switch a.Spec.Key {
		case "rsi":
			res.Value = v.Value
			res.Signal = signal.ClassifyRSI(v.Value)
		case "macd":
			res.Value = v.MACD
			h := v.MACDHist
			res.Histogram = &h
			res.Signal = signal.ClassifyMACDLevel(v.MACD, v.MACDSignal)
		case "bbands":
			res.Upper, res.Middle, res.Lower = v.Upper, v.Middle, v.Lower
			if v.Close > 0 {
				res.Signal = signal.ClassifyBollinger(v.Close, v.Upper, v.Lower)
			}
		case "obv":
			res.Value = v.Value
		case "stochrsi":
			res.Value = v.K
			res.Signal = signal.ClassifyStochRSI(v.K)
		case "atr":
			res.Value = v.Value
			res.Signal = models.SignalNormalVolatility
		case "vwap":
			res.Value = v.Value
			if v.Close > 0 {
				res.Signal = signal.ClassifyVWAP(v.Close, v.Value)
			}
		case "supertrend":
			res.Value = v.Value
			res.Signal, res.Trend = signal.ClassifySuperTrend(v.TrendUp)
		case "cmf":
			res.Value = v.Value
			res.Signal = signal.ClassifyCMF(v.Value)
		}
		calc.Indicators = append(calc.Indicators, res)
	}
	return calc
}
