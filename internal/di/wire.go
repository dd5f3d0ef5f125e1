//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"EliteScan/internal/usecase"
	"EliteScan/pkg/config"
	"EliteScan/pkg/server"
)

var scanSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,

	// Infrastructure clients
	ProvideClickHouseClient,
	ProvideCacheStore,

	// Repositories
	ProvideMarketData,
	ProvideUniverse,
	ProvideResultSink,

	// Domain services
	ProvideIndicatorEngine,
	ProvideBacktester,

	// Use cases
	ProvideAnalyzer,
	ProvideScanner,
	ProvideScanService,
)

// InitializeApp wires the HTTP application. The cleanup func releases clients in reverse order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		scanSet,
		ProvideFormatter,
		ProvideScanHandler,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeScanService wires a scan service for one-shot command line runs.
func InitializeScanService(cfg *config.Config) (*usecase.ScanService, func(), error) {
	wire.Build(scanSet)
	return nil, nil, nil
}
