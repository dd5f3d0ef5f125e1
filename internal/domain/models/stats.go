package models

// BacktestStats summarizes simulated outcomes for one stop/target pair.
// Valid is false when the sample is below the configured minimum; rates are then meaningless.
type BacktestStats struct {
	Trades      int      `json:"trades"`
	WinRate     float64  `json:"win_rate"`
	Expectancy  float64  `json:"expectancy"`
	PayoffRatio *float64 `json:"payoff_ratio,omitempty"`
	StopLoss    float64  `json:"stop_loss"`
	TakeProfit  float64  `json:"take_profit"`
	Valid       bool     `json:"valid"`
}

// NoStatistic returns the sentinel for an undersized sample.
func NoStatistic(trades int, stopLoss, takeProfit float64) BacktestStats {
	return BacktestStats{Trades: trades, StopLoss: stopLoss, TakeProfit: takeProfit}
}

// Elite reports whether valid stats clear both thresholds.
func (s BacktestStats) Elite(minWinRate, minExpectancy float64) bool {
	return s.Valid && s.WinRate >= minWinRate && s.Expectancy > minExpectancy
}
