package models

// SetupBacktest is the single-instrument historical view of one setup.
type SetupBacktest struct {
	Setup     string         `json:"setup"`
	Timeframe string         `json:"timeframe"`
	Signals   []Signal       `json:"signals"`
	Live      bool           `json:"live"`
	Outcomes  []TradeOutcome `json:"outcomes"`
	Stats     BacktestStats  `json:"stats"`
	Optimized *BacktestStats `json:"optimized,omitempty"`
}

// InstrumentBacktest collects every enabled setup for one instrument.
type InstrumentBacktest struct {
	Symbol     string          `json:"symbol"`
	AssetClass string          `json:"asset_class"`
	Bars       int             `json:"bars"`
	Setups     []SetupBacktest `json:"setups"`
}
