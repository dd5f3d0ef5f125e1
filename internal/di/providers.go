package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"EliteScan/internal/domain/repository"
	domsvc "EliteScan/internal/domain/service"
	"EliteScan/internal/handler/api"
	mid "EliteScan/internal/middleware"
	internalrepo "EliteScan/internal/repository"
	"EliteScan/internal/services/backtest"
	"EliteScan/internal/services/indicators"
	"EliteScan/internal/services/report"
	"EliteScan/internal/usecase"
	"EliteScan/pkg/cache"
	pkgch "EliteScan/pkg/clickhouse"
	"EliteScan/pkg/config"
	pkghttp "EliteScan/pkg/http"
	pkgkafka "EliteScan/pkg/kafka"
	applogger "EliteScan/pkg/logger"
	"EliteScan/pkg/metrics"
	"EliteScan/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideClickHouseClient connects only when a bar provider or sink needs it.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if cfg.Data.Provider != "clickhouse" && cfg.Sink.Type != "clickhouse" {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(cfg.Scan.Workers+2, cfg.Scan.Workers),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.Schema(cfg.ClickHouse.Database, cfg.ClickHouse.BarsTable, cfg.ClickHouse.ResultsTable)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse ready", applogger.String("database", cfg.ClickHouse.Database))

	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

// ProvideCacheStore builds an in-process bar cache, layered over Redis when configured.
// A nil store disables caching.
func ProvideCacheStore(cfg *config.Config, l *applogger.Logger) (cache.Store, func(), error) {
	c := cfg.Data.Cache
	if !c.Enabled {
		return nil, func() {}, nil
	}
	mem := cache.NewMemoryStore(
		cache.WithMemoryMaxEntries(4096),
		cache.WithMemoryDefaultTTL(c.TTL),
	)
	if !c.Redis.Enabled {
		return mem, func() { _ = mem.Close() }, nil
	}

	rs, err := cache.NewRedisStore(
		cache.WithRedisAddr(c.Redis.Addr),
		cache.WithRedisPassword(c.Redis.Password),
		cache.WithRedisDB(c.Redis.DB),
		cache.WithRedisPrefix("elitescan"),
	)
	if err != nil {
		_ = mem.Close()
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis bar cache enabled", applogger.String("addr", c.Redis.Addr))

	store := cache.NewLayeredStore(mem, rs, 15*time.Minute)
	return store, func() {
		if err := store.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}, nil
}

// ProvideMarketData selects the provider, then layers caching and throttling on top.
func ProvideMarketData(
	cfg *config.Config,
	ch *pkgch.Client,
	store cache.Store,
	m repository.Metrics,
	l *applogger.Logger,
) (repository.MarketData, error) {
	var base repository.MarketData
	switch cfg.Data.Provider {
	case "binance":
		base = internalrepo.NewBinanceMarket(cfg.Data.Binance.APIKey, cfg.Data.Binance.SecretKey, cfg.Data.Chart.Timeout, l)
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("clickhouse provider without client")
		}
		base = internalrepo.NewCHBarStore(ch, cfg.ClickHouse.BarsTable, l)
	default:
		client := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Data.Chart.Timeout))
		base = internalrepo.NewChartMarket(client, cfg.Data.Chart.BaseURL, l)
	}

	if store != nil {
		base = internalrepo.NewCachedMarket(base, store, cfg.Data.Cache.TTL, l)
	}
	return mid.NewThrottledMarket(base,
		mid.WithRate(cfg.Data.RateLimit, cfg.Data.RateBurst),
		mid.WithRetries(cfg.Data.MaxRetries, cfg.Data.RetryBackoff),
		mid.WithMetrics(m),
		mid.WithLogger(l),
	), nil
}

func ProvideUniverse(cfg *config.Config) repository.UniverseSource {
	return internalrepo.NewYAMLUniverse(cfg.Scan.UniverseFile)
}

func ProvideIndicatorEngine() domsvc.IndicatorEngine {
	return indicators.NewEngine()
}

func ProvideBacktester(cfg *config.Config) *backtest.Backtester {
	return backtest.NewBacktester(cfg.Backtest)
}

func ProvideAnalyzer(
	market repository.MarketData,
	engine domsvc.IndicatorEngine,
	bt *backtest.Backtester,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.SetupAnalyzer {
	return usecase.NewSetupAnalyzer(market, engine, bt, cfg, l)
}

func ProvideScanner(
	market repository.MarketData,
	analyzer *usecase.SetupAnalyzer,
	bt *backtest.Backtester,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.Scanner {
	return usecase.NewScanner(market, analyzer, bt, m, cfg, l)
}

// ProvideResultSink creates the sink named by sink.type.
func ProvideResultSink(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (repository.ResultSink, func(), error) {
	var sink repository.ResultSink
	switch cfg.Sink.Type {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
			pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
			pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.WriteTimeout),
			pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		sink = internalrepo.NewKafkaResultSink(producer, cfg.Kafka.Topic)
	case "clickhouse":
		if ch == nil {
			return nil, nil, fmt.Errorf("clickhouse sink without client")
		}
		sink = internalrepo.NewCHResultSink(ch, cfg.ClickHouse.ResultsTable)
	case "postgres":
		db, err := internalrepo.OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		sink = internalrepo.NewPostgresResultSink(db)
	default:
		sink = internalrepo.NopSink{}
	}
	l.Info("result sink ready", applogger.String("type", cfg.Sink.Type))

	return sink, func() {
		if err := sink.Close(); err != nil {
			l.Warn("result sink close error", applogger.Error(err))
		}
	}, nil
}

func ProvideScanService(
	universe repository.UniverseSource,
	scanner *usecase.Scanner,
	sink repository.ResultSink,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.ScanService {
	return usecase.NewScanService(universe, scanner, sink, cfg, l)
}

func ProvideFormatter(cfg *config.Config) *report.Formatter {
	return report.NewFormatter(cfg.Scan.SymbolSuffix)
}

func ProvideScanHandler(l *applogger.Logger, svc *usecase.ScanService, f *report.Formatter) *api.ScanHandler {
	return api.NewScanHandler(l, svc, f)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	h *api.ScanHandler,
	svc *usecase.ScanService,
) *server.App {
	return server.New(cfg, l, reg, h, svc)
}
