// Injectors for the sets in wire.go, kept in wire's output form. Running
// go generate replaces this file with the tool's output.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"EliteScan/internal/usecase"
	"EliteScan/pkg/config"
	"EliteScan/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires the HTTP application. The cleanup func releases clients in reverse order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	registry := ProvideRegistry()
	client, cleanup, err := ProvideClickHouseClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	store, cleanup2, err := ProvideCacheStore(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	metrics := ProvideMetrics(registry)
	marketData, err := ProvideMarketData(cfg, client, store, metrics, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	universeSource := ProvideUniverse(cfg)
	indicatorEngine := ProvideIndicatorEngine()
	backtester := ProvideBacktester(cfg)
	setupAnalyzer := ProvideAnalyzer(marketData, indicatorEngine, backtester, cfg, logger)
	scanner := ProvideScanner(marketData, setupAnalyzer, backtester, metrics, cfg, logger)
	resultSink, cleanup3, err := ProvideResultSink(cfg, client, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	scanService := ProvideScanService(universeSource, scanner, resultSink, cfg, logger)
	formatter := ProvideFormatter(cfg)
	scanHandler := ProvideScanHandler(logger, scanService, formatter)
	app := ProvideApp(cfg, logger, registry, scanHandler, scanService)
	return app, func() {
		cleanup3()
		cleanup2()
		cleanup()
	}, nil
}

// InitializeScanService wires a scan service for one-shot command line runs.
func InitializeScanService(cfg *config.Config) (*usecase.ScanService, func(), error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, cleanup, err := ProvideClickHouseClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	store, cleanup2, err := ProvideCacheStore(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	registry := ProvideRegistry()
	metrics := ProvideMetrics(registry)
	marketData, err := ProvideMarketData(cfg, client, store, metrics, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	universeSource := ProvideUniverse(cfg)
	indicatorEngine := ProvideIndicatorEngine()
	backtester := ProvideBacktester(cfg)
	setupAnalyzer := ProvideAnalyzer(marketData, indicatorEngine, backtester, cfg, logger)
	scanner := ProvideScanner(marketData, setupAnalyzer, backtester, metrics, cfg, logger)
	resultSink, cleanup3, err := ProvideResultSink(cfg, client, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	scanService := ProvideScanService(universeSource, scanner, resultSink, cfg, logger)
	return scanService, func() {
		cleanup3()
		cleanup2()
		cleanup()
	}, nil
}
