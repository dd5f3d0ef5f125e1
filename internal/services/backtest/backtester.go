package backtest

import (
	"EliteScan/internal/domain/models"
	"EliteScan/pkg/config"
)

// Backtester bundles the simulator, aggregator and optimizer under one configuration.
type Backtester struct {
	cfg       config.BacktestConfig
	sim       *Simulator
	optimizer *Optimizer
}

func NewBacktester(cfg config.BacktestConfig) *Backtester {
	sim := NewSimulator(cfg)
	return &Backtester{
		cfg:       cfg,
		sim:       sim,
		optimizer: NewOptimizer(sim, cfg.MinTrades, cfg.StopLossGrid, cfg.TakeProfitGrid),
	}
}

func (b *Backtester) LookAhead() int { return b.cfg.LookAheadBars }
func (b *Backtester) MinTrades() int { return b.cfg.MinTrades }

// Evaluate simulates all signals with a fixed stop/target pair.
func (b *Backtester) Evaluate(bars []models.Bar, signals []models.Signal, stopLoss, takeProfit float64) ([]models.TradeOutcome, models.BacktestStats) {
	outcomes := b.sim.Run(bars, signals, stopLoss, takeProfit)
	return outcomes, Aggregate(outcomes, b.cfg.MinTrades, stopLoss, takeProfit)
}

func (b *Backtester) Optimize(bars []models.Bar, signals []models.Signal) (models.BacktestStats, bool) {
	return b.optimizer.Optimize(bars, signals)
}

// EntryPrice exposes the configured entry rule.
func (b *Backtester) EntryPrice(bars []models.Bar, i int) float64 {
	return b.sim.EntryPrice(bars, i)
}
