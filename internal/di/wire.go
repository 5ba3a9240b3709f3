//go:build wireinject
// +build wireinject

package di

import (
	"PhonePortal/pkg/config"
	"PhonePortal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideSalesStorage,
		ProvideSalesPublisher,
		ProvideEventPublisher,

		// Use cases
		ProvideEngine,
		ProvideSalesForecaster,
		ProvideSalesIngestor,
		ProvideSalesEventHandler,
		ProvideCatalog,
		ProvideMarketplace,
		ProvideReviews,
		ProvideUpcoming,

		// Transport
		ProvideLimiter,
		ProvidePortalHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
