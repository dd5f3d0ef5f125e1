package models

// Signal marks a bar where a setup's filter and trigger both held.
type Signal struct {
	Symbol    string `json:"symbol"`
	Index     int    `json:"index"`
	Timeframe string `json:"timeframe"`
	Setup     string `json:"setup"`
}

// TradeOutcome is one resolved simulated trade.
type TradeOutcome struct {
	SignalIndex int     `json:"signal_index"`
	Entry       float64 `json:"entry"`
	Stop        float64 `json:"stop"`
	Target      float64 `json:"target"`
	ExitOffset  int     `json:"exit_offset"`
	Return      float64 `json:"return"`
}

// Win reports whether the trade hit its target.
func (o TradeOutcome) Win() bool { return o.Return > 0 }
