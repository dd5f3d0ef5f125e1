package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	xutil "EliteScan/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Scan       ScanConfig       `yaml:"scan"`
	Data       DataConfig       `yaml:"data"`
	Strategy   StrategyConfig   `yaml:"strategy"`
	Backtest   BacktestConfig   `yaml:"backtest"`
	Sink       SinkConfig       `yaml:"sink"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Postgres   struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
}

type ScanConfig struct {
	Workers        int      `yaml:"workers" default:"8" validate:"gte=1,lte=256"`
	MinHistoryBars int      `yaml:"min_history_bars" default:"100" validate:"gte=1"`
	UniverseFile   string   `yaml:"universe_file" default:"config/universe.yaml"`
	Symbols        []string `yaml:"symbols"` // restricts the universe when set
	SymbolSuffix   string   `yaml:"symbol_suffix" default:".SA"`
}

type DataConfig struct {
	Provider     string        `yaml:"provider" default:"chart" validate:"oneof=chart binance clickhouse"`
	DailyPeriod  string        `yaml:"daily_period" default:"5y"`
	WeeklyPeriod string        `yaml:"weekly_period" default:"8y"` // empty resamples weekly bars from daily
	FetchTimeout time.Duration `yaml:"fetch_timeout" default:"30s"`
	RateLimit    float64       `yaml:"rate_limit" default:"5"` // requests per second, 0 disables
	RateBurst    int           `yaml:"rate_burst" default:"10"`
	MaxRetries   int           `yaml:"max_retries" validate:"gte=0"` // 0 makes a failed fetch final
	RetryBackoff time.Duration `yaml:"retry_backoff" default:"200ms"`
	Chart        struct {
		BaseURL string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"chart"`
	Binance struct {
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"binance"`
	Cache struct {
		Enabled bool          `yaml:"enabled" default:"true"`
		TTL     time.Duration `yaml:"ttl" default:"6h"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

type IndicatorConfig struct {
	EMAPeriod        int `yaml:"ema_period" validate:"gte=1"`
	DMIPeriod        int `yaml:"dmi_period" default:"14" validate:"gte=1"`
	StochK           int `yaml:"stoch_k" default:"14" validate:"gte=1"`
	StochSmooth      int `yaml:"stoch_smooth" default:"3" validate:"gte=1"`
	StochD           int `yaml:"stoch_d" default:"3" validate:"gte=1"`
	OBVAvgPeriod     int `yaml:"obv_avg_period" default:"10" validate:"gte=1"`
	BreakoutLookback int `yaml:"breakout_lookback" default:"10" validate:"gte=1"`
}

// Warmup is the longest window of the configured indicators.
func (c IndicatorConfig) Warmup() int {
	w := c.EMAPeriod
	for _, v := range []int{2 * c.DMIPeriod, c.StochK + c.StochSmooth + c.StochD, c.OBVAvgPeriod, c.BreakoutLookback + 1} {
		if v > w {
			w = v
		}
	}
	return w
}

type FilterConfig struct {
	RequireWeeklyDMI bool    `yaml:"require_weekly_dmi"`
	ADXMin           float64 `yaml:"adx_min" default:"20" validate:"gte=0"`
	Momentum         string  `yaml:"momentum" default:"either" validate:"oneof=floor cross either"`
	StochFloor       float64 `yaml:"stoch_floor" default:"20" validate:"gte=0,lte=100"`
}

type TriggerConfig struct {
	Pattern          string  `yaml:"pattern" default:"breakout" validate:"oneof=breakout reversal any"`
	BodyRatioMin     float64 `yaml:"body_ratio_min" default:"0.4" validate:"gte=0,lte=1"`
	ClosePositionMin float64 `yaml:"close_position_min" default:"0.6" validate:"gte=0,lte=1"`
}

type EliteConfig struct {
	WinRate    float64 `yaml:"win_rate" validate:"gte=0,lte=1"`
	Expectancy float64 `yaml:"expectancy"`
}

type DailySetupConfig struct {
	Enabled          bool            `yaml:"enabled" default:"true"`
	Label            string          `yaml:"label" default:"Daily Elite"`
	WarmupBars       int             `yaml:"warmup_bars" default:"50" validate:"gte=2"`
	Indicators       IndicatorConfig `yaml:"indicators" default:"{\"EMAPeriod\":50}"`
	WeeklyIndicators IndicatorConfig `yaml:"weekly_indicators" default:"{\"EMAPeriod\":21}"`
	Filter           FilterConfig    `yaml:"filter"`
	Trigger          TriggerConfig   `yaml:"trigger"`
	Elite            EliteConfig     `yaml:"elite" default:"{\"WinRate\":0.65,\"Expectancy\":0.01}"`
}

type WeeklySetupConfig struct {
	Enabled    bool            `yaml:"enabled" default:"true"`
	Label      string          `yaml:"label" default:"Weekly Elite"`
	WarmupBars int             `yaml:"warmup_bars" default:"50" validate:"gte=2"`
	Indicators IndicatorConfig `yaml:"indicators" default:"{\"EMAPeriod\":21}"`
	Elite      EliteConfig     `yaml:"elite" default:"{\"WinRate\":0.70,\"Expectancy\":0.02}"`
}

type StrategyConfig struct {
	Daily  DailySetupConfig  `yaml:"daily"`
	Weekly WeeklySetupConfig `yaml:"weekly"`
}

type BacktestConfig struct {
	LookAheadBars  int       `yaml:"look_ahead_bars" default:"21" validate:"gte=1"`
	MinTrades      int       `yaml:"min_trades" default:"10" validate:"gte=1"`
	EntryRule      string    `yaml:"entry_rule" default:"signal_close" validate:"oneof=signal_close prior_highs"`
	Optimize       bool      `yaml:"optimize"`
	StopLossGrid   []float64 `yaml:"stop_loss_grid" default:"[0.03,0.04,0.05,0.06]" validate:"dive,gt=0,lt=1"`
	TakeProfitGrid []float64 `yaml:"take_profit_grid" default:"[0.06,0.08,0.10,0.12]" validate:"dive,gt=0"`
}

type SinkConfig struct {
	Type    string        `yaml:"type" default:"none" validate:"oneof=none kafka clickhouse postgres"`
	Timeout time.Duration `yaml:"timeout" default:"15s"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic" default:"elitescan.results"`
	RequiredAcks int      `yaml:"required_acks" default:"-1"`
	Compression  string   `yaml:"compression" default:"gzip"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"200ms"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"producer"`
}

type ClickHouseConfig struct {
	Host         string        `yaml:"host" default:"localhost"`
	Port         int           `yaml:"port" default:"9000"`
	Database     string        `yaml:"database" default:"elitescan"`
	User         string        `yaml:"user" default:"default"`
	Password     string        `yaml:"password"`
	UseHTTP      bool          `yaml:"use_http"`
	DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
	BarsTable    string        `yaml:"bars_table" default:"bars"`
	ResultsTable string        `yaml:"results_table" default:"scan_results"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads an optional .env file, the YAML config, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SCAN_SYMBOLS"); v != "" {
		c.Scan.Symbols = xutil.SplitCSV(v)
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SCAN_WORKERS: %w", err)
		}
		c.Scan.Workers = n
	}
	if v := os.Getenv("MARKET_PROVIDER"); v != "" {
		c.Data.Provider = v
	}
	if v := os.Getenv("SINK_TYPE"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = xutil.SplitCSV(v)
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		c.Data.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		c.Data.Binance.SecretKey = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Data.Cache.Redis.Enabled = true
		c.Data.Cache.Redis.Addr = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !c.Strategy.Daily.Enabled && !c.Strategy.Weekly.Enabled {
		return fmt.Errorf("at least one setup must be enabled")
	}
	if c.Backtest.Optimize && (len(c.Backtest.StopLossGrid) == 0 || len(c.Backtest.TakeProfitGrid) == 0) {
		return fmt.Errorf("backtest.optimize requires stop_loss_grid and take_profit_grid")
	}
	switch c.Sink.Type {
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required for sink.type=kafka")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for sink.type=postgres")
		}
	}
	return nil
}
