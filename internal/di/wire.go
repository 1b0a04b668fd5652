//go:build wireinject
// +build wireinject

package di

import (
	"ImpulseScan/pkg/config"
	"ImpulseScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Metrics
		ProvideRegistry,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideRedisCache,
		ProvideCache,
		ProvideMarketData,

		// Notification channels
		ProvideHub,
		ProvideNotifier,
		ProvideQueueConsumer,

		// Use cases
		ProvideScanConfig,
		ProvideScanner,

		// Application server
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
