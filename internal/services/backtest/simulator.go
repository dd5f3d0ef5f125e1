package backtest

import (
	"EliteScan/internal/domain/models"
	"EliteScan/pkg/config"
)

const (
	EntrySignalClose = "signal_close"
	EntryPriorHighs  = "prior_highs"
)

// Simulator replays forward bars after a signal until the stop or target is touched.
type Simulator struct {
	lookAhead int
	entryRule string
}

func NewSimulator(cfg config.BacktestConfig) *Simulator {
	return &Simulator{lookAhead: cfg.LookAheadBars, entryRule: cfg.EntryRule}
}

// EntryPrice returns the assumed fill for a signal at bar i.
func (s *Simulator) EntryPrice(bars []models.Bar, i int) float64 {
	if s.entryRule == EntryPriorHighs && i >= 2 {
		return max(bars[i-1].High, bars[i-2].High)
	}
	return bars[i].Close
}

// Simulate resolves one trade. The stop is checked before the target on every bar, so a
// bar touching both is a loss. ok is false when neither level is hit inside the window.
func (s *Simulator) Simulate(bars []models.Bar, i int, stopLoss, takeProfit float64) (models.TradeOutcome, bool) {
	if i < 0 || i >= len(bars) {
		return models.TradeOutcome{}, false
	}
	entry := s.EntryPrice(bars, i)
	out := models.TradeOutcome{
		SignalIndex: i,
		Entry:       entry,
		Stop:        entry * (1 - stopLoss),
		Target:      entry * (1 + takeProfit),
	}
	end := min(i+s.lookAhead, len(bars)-1)
	for j := i + 1; j <= end; j++ {
		switch {
		case bars[j].Low <= out.Stop:
			out.ExitOffset, out.Return = j-i, -stopLoss
			return out, true
		case bars[j].High >= out.Target:
			out.ExitOffset, out.Return = j-i, takeProfit
			return out, true
		}
	}
	return models.TradeOutcome{}, false
}

// Run simulates every signal; unresolved signals are dropped.
func (s *Simulator) Run(bars []models.Bar, signals []models.Signal, stopLoss, takeProfit float64) []models.TradeOutcome {
	out := make([]models.TradeOutcome, 0, len(signals))
	for _, sig := range signals {
		if o, ok := s.Simulate(bars, sig.Index, stopLoss, takeProfit); ok {
			out = append(out, o)
		}
	}
	return out
}
