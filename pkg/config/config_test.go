package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if c.Backtest.LookAheadBars != 21 || c.Backtest.MinTrades != 10 {
		t.Fatalf("unexpected backtest defaults: %+v", c.Backtest)
	}
	if c.Strategy.Daily.Indicators.EMAPeriod != 50 || c.Strategy.Daily.Indicators.DMIPeriod != 14 {
		t.Fatalf("unexpected daily indicator defaults: %+v", c.Strategy.Daily.Indicators)
	}
	if c.Strategy.Weekly.Elite.WinRate != 0.70 {
		t.Fatalf("unexpected weekly elite win rate: %v", c.Strategy.Weekly.Elite.WinRate)
	}
	if len(c.Backtest.StopLossGrid) != 4 {
		t.Fatalf("unexpected stop grid: %v", c.Backtest.StopLossGrid)
	}
	if c.Data.FetchTimeout != 30*time.Second {
		t.Fatalf("unexpected fetch timeout: %v", c.Data.FetchTimeout)
	}
	if c.Data.MaxRetries != 0 {
		t.Fatalf("fetch retries must be off by default, got %d", c.Data.MaxRetries)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Environment != "test" {
		t.Fatalf("unexpected environment: %s", c.Environment)
	}
	if c.Scan.Workers != 4 || len(c.Scan.Symbols) != 2 {
		t.Fatalf("unexpected scan config: %+v", c.Scan)
	}
	if c.Data.WeeklyPeriod != "" {
		t.Fatalf("weekly period should be overridden to empty, got %q", c.Data.WeeklyPeriod)
	}
	if c.Strategy.Daily.Indicators.EMAPeriod != 30 {
		t.Fatalf("unexpected ema period: %d", c.Strategy.Daily.Indicators.EMAPeriod)
	}
	if c.Strategy.Daily.Indicators.DMIPeriod != 14 {
		t.Fatalf("default should survive partial override, got %d", c.Strategy.Daily.Indicators.DMIPeriod)
	}
	if c.Strategy.Daily.Trigger.Pattern != "reversal" {
		t.Fatalf("unexpected pattern: %s", c.Strategy.Daily.Trigger.Pattern)
	}
	if c.Backtest.MinTrades != 5 || !c.Backtest.Optimize {
		t.Fatalf("unexpected backtest config: %+v", c.Backtest)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "invalid.yaml")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SCAN_SYMBOLS", "ITUB4.SA, BBAS3.SA,")
	t.Setenv("SCAN_WORKERS", "2")
	t.Setenv("MARKET_PROVIDER", "clickhouse")
	c, err := LoadWithEnv(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadWithEnv returned error: %v", err)
	}
	if len(c.Scan.Symbols) != 2 || c.Scan.Symbols[1] != "BBAS3.SA" {
		t.Fatalf("unexpected symbols: %v", c.Scan.Symbols)
	}
	if c.Scan.Workers != 2 || c.Data.Provider != "clickhouse" {
		t.Fatalf("env overrides not applied: %+v %s", c.Scan, c.Data.Provider)
	}
}

func TestValidateCrossField(t *testing.T) {
	c, _ := Default()
	c.Sink.Type = "kafka"
	if err := c.Validate(); err == nil {
		t.Fatalf("kafka sink without brokers should fail")
	}
	c.Sink.Type = "none"
	c.Strategy.Daily.Enabled = false
	c.Strategy.Weekly.Enabled = false
	if err := c.Validate(); err == nil {
		t.Fatalf("no enabled setup should fail")
	}
}

func TestIndicatorWarmup(t *testing.T) {
	c := IndicatorConfig{EMAPeriod: 21, DMIPeriod: 14, StochK: 14, StochSmooth: 3, StochD: 3, OBVAvgPeriod: 10, BreakoutLookback: 10}
	if got := c.Warmup(); got != 28 {
		t.Fatalf("warmup want 28, got %d", got)
	}
}
