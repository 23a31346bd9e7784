package api

import (
	"net/http"
	"time"

	models "CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	svcmetrics "CoinPulse/internal/service/metrics"
	"CoinPulse/internal/usecase"
	xhttp "CoinPulse/pkg/http"
	xlogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/queue"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler exposes the analysis read and trigger endpoints.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	query    *usecase.AnalysisQuery
	analyzer *usecase.Analyzer
	candles  *usecase.CandlesUseCase
	jobs     queue.QueueService
	symbols  []string
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, query *usecase.AnalysisQuery, analyzer *usecase.Analyzer, candles *usecase.CandlesUseCase, jobs queue.QueueService, symbols []string) *AnalysisEchoHandler {
	svcmetrics.Register()
	return &AnalysisEchoHandler{logger: logger, query: query, analyzer: analyzer, candles: candles, jobs: jobs, symbols: symbols}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Latest)
	g.POST("/analyze", h.Analyze)
	g.GET("/candles", h.Candles)
	g.GET("/symbols", h.Symbols)
}

// Latest returns the most recent persisted records for a symbol, or for
// all symbols when no symbol is given.
func (h *AnalysisEchoHandler) Latest(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.APILatency.WithLabelValues("analysis").Observe(time.Since(start).Seconds()) }()
	req := &models.LatestAnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Symbol != "" && !models.IsSupportedSymbol(req.Symbol) {
		return xhttp.NotFoundResponse(c, "unsupported symbol")
	}

	recs, err := h.query.Latest(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		svcmetrics.APIErrors.WithLabelValues("analysis").Inc()
		h.logger.Error("analysis query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, recs)
}

// Analyze runs an on-demand analysis cycle. An empty or "all" symbol
// covers every configured symbol; all-symbol cycles share the rate
// limiter with the scheduler.
func (h *AnalysisEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	targets := []string{req.Symbol}
	all := req.Symbol == "" || req.Symbol == "all"
	if all {
		targets = h.symbols
	} else if !models.IsSupportedSymbol(req.Symbol) {
		return xhttp.NotFoundResponse(c, "unsupported symbol")
	}

	if req.Async && h.jobs != nil {
		for _, sym := range targets {
			payload := usecase.AnalyzeJobPayload{Symbol: sym}
			if err := h.jobs.PublishMessage(c.Request().Context(), usecase.AnalyzeJobType, payload); err != nil {
				h.logger.Error("analyze enqueue error", xlogger.String("symbol", sym), xlogger.Error(err))
				return xhttp.AppErrorResponse(c, err)
			}
		}
		return xhttp.DataResponse(c, http.StatusAccepted, map[string]interface{}{"symbols": targets, "status": "queued"})
	}

	if all {
		recs := h.analyzer.RunCycle(c.Request().Context(), targets)
		return xhttp.SuccessResponse(c, recs)
	}

	rec, err := h.analyzer.AnalyzeSymbol(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rec)
}

// Candles returns raw candle history for charting.
func (h *AnalysisEchoHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	now := time.Now().UTC()
	p := usecase.GetCandlesParams{
		Symbol:   req.Symbol,
		From:     xhttp.ParseTimeDefault(req.From, now.Add(-30*24*time.Hour)),
		To:       xhttp.ParseTimeDefault(req.To, now),
		Interval: domrepo.NormalizeInterval(req.Interval),
		Limit:    req.Limit,
	}
	res, err := h.candles.GetCandles(c.Request().Context(), p)
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Symbols lists the supported symbol catalog.
func (h *AnalysisEchoHandler) Symbols(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.SupportedSymbols)
}
