package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"CoinPulse/internal/domain/repository"
	dsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/handler/api"
	mid "CoinPulse/internal/middleware"
	internalrepo "CoinPulse/internal/repository"
	"CoinPulse/internal/service/binance"
	"CoinPulse/internal/service/coingecko"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/internal/service/taapi"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/cache"
	pkgch "CoinPulse/pkg/clickhouse"
	"CoinPulse/pkg/config"
	pkgkafka "CoinPulse/pkg/kafka"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/metrics"
	"CoinPulse/pkg/queue"
	"CoinPulse/pkg/server"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the
// candle and analysis tables.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const candleDDL = `CREATE TABLE IF NOT EXISTS coinpulse.candles_%s (
        bucket DateTime, symbol String,
        open Float64, high Float64, low Float64, close Float64, vol Float64
    ) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)`

	stmts := []string{
		"CREATE DATABASE IF NOT EXISTS coinpulse",
		fmt.Sprintf(candleDDL, "1h"),
		fmt.Sprintf(candleDDL, "4h"),
		fmt.Sprintf(candleDDL, "1d"),
		`CREATE TABLE IF NOT EXISTS coinpulse.analysis_records (
            symbol String, scraped_at DateTime, price Float64,
            price_change Float64, price_change_percent Float64,
            market_cap Float64, volume_24h Float64, price_unavailable UInt8,
            overall String, ti_summary String, ma_summary String,
            technical_indicators String, moving_averages String, pivot_points String,
            partial UInt8, warnings String,
            provider String, exchange String, interval String, data_points UInt32
        ) ENGINE=MergeTree ORDER BY (symbol, scraped_at)`,
	}
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClock provides the wall clock.
func ProvideClock() repository.Clock {
	return ratelimit.SystemClock{}
}

// ProvideInterval normalizes the configured analysis interval.
func ProvideInterval(cfg *config.Config) repository.Interval {
	return repository.NormalizeInterval(cfg.Analysis.Interval)
}

// ProvideCandleStore creates the ClickHouse candle repository. It serves
// both reads (indicator input) and writes (stream ingestion).
func ProvideCandleStore(chClient *pkgch.Client, iv repository.Interval, l *applogger.Logger) *internalrepo.CHCandleStore {
	store := internalrepo.NewCHCandleStore(chClient, iv)
	store.SetLogger(l)
	return store
}

// ProvideAnalysisStore creates ClickHouse analysis storage.
func ProvideAnalysisStore(chClient *pkgch.Client) repository.AnalysisStore {
	return internalrepo.NewCHAnalysisStore(chClient.DB(), "coinpulse.analysis_records")
}

// ProvidePublisher creates the Kafka publisher for records and candles.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.RecordsTopic, cfg.Kafka.CandlesTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaHandlers registers consumers for the candle and record
// topics so the kafka backend still lands everything in ClickHouse.
func ProvideKafkaHandlers(
	candles *internalrepo.CHCandleStore,
	analyses repository.AnalysisStore,
	m repository.Metrics,
	cfg *config.Config,
) []pkgkafka.MessageHandler {
	return []pkgkafka.MessageHandler{
		usecase.NewKafkaCandlesHandler(cfg.Kafka.CandlesTopic, candles, m),
		usecase.NewKafkaRecordsHandler(cfg.Kafka.RecordsTopic, analyses, m),
	}
}

// ProvideBinanceStream creates the Binance kline WebSocket stream.
func ProvideBinanceStream(cfg *config.Config, iv repository.Interval) repository.CandleStream {
	return binance.New(
		cfg.Binance.WebSocketURL,
		cfg.Analysis.Symbols,
		iv,
		cfg.Binance.ReconnectDelay,
		cfg.Binance.PingInterval,
	)
}

// ProvideCandleProcessor creates the candle routing use case.
func ProvideCandleProcessor(
	pub repository.Publisher,
	writer *internalrepo.CHCandleStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.CandleProcessor {
	return usecase.NewCandleProcessor(pub, writer, m, cfg.Backend.Type)
}

// ProvideCandleCollector creates the candle collector with the ingestion
// pipeline in front of the processor.
func ProvideCandleCollector(
	stream repository.CandleStream,
	processor *usecase.CandleProcessor,
	m repository.Metrics,
) *usecase.CandleCollector {
	pipe := mid.NewRealtimePipeline(processor, m,
		mid.WithBufferSize(2000),
	)
	return usecase.NewCandleCollector(stream, processor, m, pipe)
}

// ProvideRecordProcessor creates the analysis record routing use case.
func ProvideRecordProcessor(
	pub repository.Publisher,
	store repository.AnalysisStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.RecordProcessor {
	return usecase.NewRecordProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideLimiter creates the shared provider rate limiter.
func ProvideLimiter(cfg *config.Config, clock repository.Clock) *ratelimit.Limiter {
	return ratelimit.New(cfg.Taapi.MinInterval, cfg.Taapi.DailyQuota, clock)
}

// ProvideIndicatorSource creates the remote indicator client.
func ProvideIndicatorSource(cfg *config.Config) dsvc.IndicatorSource {
	return taapi.New(cfg.Taapi.BaseURL, cfg.Taapi.APIKey, cfg.Taapi.Timeout)
}

// ProvideSnapshotSource creates the price snapshot client.
func ProvideSnapshotSource(cfg *config.Config) dsvc.SnapshotSource {
	return coingecko.New(cfg.Coingecko.BaseURL, cfg.Coingecko.APIKey, cfg.Coingecko.Timeout)
}

// ProvideFetcher creates the rate-limited remote fetcher.
func ProvideFetcher(
	src dsvc.IndicatorSource,
	limiter *ratelimit.Limiter,
	clock repository.Clock,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.RateLimitedFetcher {
	return usecase.NewRateLimitedFetcher(
		src, limiter, clock,
		cfg.Taapi.RetryMax, cfg.Taapi.RetryPause,
		cfg.Taapi.Exchange, cfg.Analysis.Interval,
		l,
	)
}

// ProvideAnalyzer creates the per-symbol analysis orchestrator.
func ProvideAnalyzer(
	candles *internalrepo.CHCandleStore,
	fetcher *usecase.RateLimitedFetcher,
	snapshots dsvc.SnapshotSource,
	proc *usecase.RecordProcessor,
	m repository.Metrics,
	clock repository.Clock,
	l *applogger.Logger,
	cfg *config.Config,
	iv repository.Interval,
) (*usecase.Analyzer, error) {
	return usecase.NewAnalyzer(
		candles, fetcher, snapshots, proc, m, clock, l,
		cfg.Analysis.Source, cfg.Taapi.Exchange, iv,
		cfg.Analysis.MinIndicators,
	)
}

// ProvideQueryCache layers an in-process cache over Redis when Redis is
// enabled, otherwise serves from memory alone.
func ProvideQueryCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Analysis.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(512)), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Analysis.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Analysis.Redis.Password),
		cache.WithRedisDB(cfg.Analysis.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideAnalysisQuery creates the cached read use case.
func ProvideAnalysisQuery(store repository.AnalysisStore, c cache.Service, cfg *config.Config) *usecase.AnalysisQuery {
	return usecase.NewAnalysisQuery(store, c, cfg.Analysis.CacheTTL)
}

// ProvideCandlesUseCase creates the candle read use case.
func ProvideCandlesUseCase(store *internalrepo.CHCandleStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

// ProvideJobQueue creates the Redis job queue behind async analyze
// requests. Nil when Redis is disabled; analyze then always runs inline.
func ProvideJobQueue(cfg *config.Config, l *applogger.Logger, analyzer *usecase.Analyzer) *queue.RedisQueue {
	if !cfg.Analysis.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Analysis.Redis.Addr,
		Password: cfg.Analysis.Redis.Password,
		DB:       cfg.Analysis.Redis.DB,
	})
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    2,
		RetryLimit: 2,
		RetryDelay: 15 * time.Second,
	}, client, queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewAnalyzeJob(analyzer, l))
	return q
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	query *usecase.AnalysisQuery,
	analyzer *usecase.Analyzer,
	candles *usecase.CandlesUseCase,
	jobQueue *queue.RedisQueue,
) *api.AnalysisEchoHandler {
	var jobs queue.QueueService
	if jobQueue != nil {
		jobs = jobQueue
	}
	return api.NewAnalysisEchoHandler(l, query, analyzer, candles, jobs, cfg.Analysis.Symbols)
}

// logPublisher feeds aggregated error logs into a Kafka topic.
type logPublisher struct {
	producer *pkgkafka.Producer
}

func (lp logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return lp.producer.Publish(ctx, topic, nil, payload)
}

// consumerHook logs handler failures with partition context and warns on
// slow handling. Retries happen inside the consumer, so OnError fires per
// attempt.
func consumerHook(l *applogger.Logger) pkgkafka.ConsumerHook {
	errHook := pkgkafka.HookFuncs{
		Err: func(_ context.Context, topic string, km kafka.Message, _ []byte, err error) {
			l.Warn("kafka handler attempt failed",
				applogger.String("topic", topic),
				applogger.Int("partition", km.Partition),
				applogger.Int64("offset", km.Offset),
				applogger.Error(err))
		},
	}
	slowHook := pkgkafka.HookFuncs{
		After: func(_ context.Context, topic string, km kafka.Message, _ []byte, err error) {
			if err == nil && time.Since(km.Time) > 5*time.Minute {
				l.Warn("kafka message handled late",
					applogger.String("topic", topic),
					applogger.Int64("offset", km.Offset),
					applogger.String("produced_at", km.Time.Format(time.RFC3339)))
			}
		},
	}
	return pkgkafka.NewHookChain(errHook, slowHook)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	collector *usecase.CandleCollector,
	analyzer *usecase.Analyzer,
	consumer *pkgkafka.Consumer,
	handlers []pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	httpHandler *api.AnalysisEchoHandler,
	recProc *usecase.RecordProcessor,
	jobQueue *queue.RedisQueue,
) *server.App {
	// the consumer only matters on the kafka backend
	if cfg.Backend.Type != "kafka" {
		consumer = nil
		handlers = nil
	}
	// aggregated error logs ship to Kafka when a logs topic is set
	if cfg.Backend.Type == "kafka" && cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      logPublisher{producer},
		})
	}
	if consumer != nil {
		consumer.WithConsumerHook(consumerHook(l))
	}
	app := server.New(cfg, collector, analyzer, consumer, handlers, chClient)
	app.SetHTTPHandler(httpHandler)
	// record processor and job queue are closed during shutdown
	app.RecordProc = recProc
	app.JobQueue = jobQueue
	return app
}
