package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CoinPulse/internal/usecase"
	pkgch "CoinPulse/pkg/clickhouse"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	pkgkafka "CoinPulse/pkg/kafka"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle: candle ingestion,
// periodic analysis cycles, the Kafka consumer, and the HTTP API.
type App struct {
	cfg         *config.Config
	collector   *usecase.CandleCollector
	analyzer    *usecase.Analyzer
	consumer    *pkgkafka.Consumer
	handlers    []pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	RecordProc  *usecase.RecordProcessor
	JobQueue    *queue.RedisQueue
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.CandleCollector,
	analyzer *usecase.Analyzer,
	consumer *pkgkafka.Consumer,
	handlers []pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		analyzer:  analyzer,
		consumer:  consumer,
		handlers:  handlers,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithServerLogger(l),
	)

	// Start candle collector
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Analysis.Symbols))
	}

	// Start periodic analysis cycles
	if a.analyzer != nil && a.cfg.Analysis.CycleInterval > 0 {
		go a.runCycles(ctx, l)
		l.Info("analysis cycles started",
			applogger.String("source", a.cfg.Analysis.Source),
			applogger.Duration("interval", a.cfg.Analysis.CycleInterval))
	}

	// Start consumer if configured
	if a.consumer != nil && len(a.handlers) > 0 {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
			l.Info("kafka handler registered", applogger.String("topic", h.Topic()))
		}
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started")
	}

	// Start job queue workers
	if a.JobQueue != nil {
		if err := a.JobQueue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
		} else {
			l.Info("job queue started")
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// runCycles analyzes all configured symbols on a fixed period. The first
// cycle runs immediately.
func (a *App) runCycles(ctx context.Context, l *applogger.Logger) {
	ticker := time.NewTicker(a.cfg.Analysis.CycleInterval)
	defer ticker.Stop()
	for {
		recs := a.analyzer.RunCycle(ctx, a.cfg.Analysis.Symbols)
		l.Info("analysis cycle complete", applogger.Int("records", len(recs)))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Drain job queue workers
	if a.JobQueue != nil {
		if err := a.JobQueue.Stop(ctx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	// Close record processor resources (publisher/storage)
	if a.RecordProc != nil {
		a.RecordProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
