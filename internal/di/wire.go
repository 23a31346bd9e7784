//go:build wireinject
// +build wireinject

package di

import (
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideClock,
		ProvideInterval,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideCandleStore,
		ProvideAnalysisStore,
		ProvidePublisher,

		// Source services
		ProvideBinanceStream,
		ProvideLimiter,
		ProvideIndicatorSource,
		ProvideSnapshotSource,

		// Use cases
		ProvideCandleProcessor,
		ProvideCandleCollector,
		ProvideRecordProcessor,
		ProvideFetcher,
		ProvideAnalyzer,
		ProvideQueryCache,
		ProvideAnalysisQuery,
		ProvideCandlesUseCase,
		ProvideKafkaHandlers,
		ProvideJobQueue,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
