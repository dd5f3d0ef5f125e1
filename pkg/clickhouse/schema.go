package clickhouse

import "fmt"

// BarsDDL creates the OHLCV table read by the bar provider. One row per symbol, timeframe and bar time.
func BarsDDL(database, table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    symbol    LowCardinality(String),
    timeframe LowCardinality(String),
    ts        DateTime64(3, 'UTC'),
    open      Float64,
    high      Float64,
    low       Float64,
    close     Float64,
    volume    Float64
) ENGINE = ReplacingMergeTree
ORDER BY (symbol, timeframe, ts)`, database, table)
}

// ResultsDDL creates the table that stores qualifying scan results.
func ResultsDDL(database, table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    scan_id      String,
    scanned_at   DateTime64(3, 'UTC'),
    symbol       LowCardinality(String),
    asset_class  LowCardinality(String),
    setup        LowCardinality(String),
    timeframe    LowCardinality(String),
    win_rate     Float64,
    expectancy   Float64,
    payoff_ratio Nullable(Float64),
    trades       UInt32,
    stop_loss    Float64,
    take_profit  Float64,
    optimized    UInt8,
    entry        Float64,
    stop         Float64,
    target       Float64,
    as_of        DateTime64(3, 'UTC')
) ENGINE = MergeTree
PARTITION BY toYYYYMM(scanned_at)
ORDER BY (scanned_at, scan_id, symbol, setup)`, database, table)
}

// Schema returns the statements needed by the scanner, database first.
func Schema(database, barsTable, resultsTable string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		BarsDDL(database, barsTable),
		ResultsDDL(database, resultsTable),
	}
}
