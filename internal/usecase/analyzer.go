package usecase

import (
	"context"
	"fmt"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	domsvc "EliteScan/internal/domain/service"
	"EliteScan/internal/services/backtest"
	"EliteScan/internal/services/features"
	"EliteScan/internal/services/setup"
	"EliteScan/pkg/config"
	applogger "EliteScan/pkg/logger"
)

// SetupAnalyzer runs every enabled setup over one instrument's history.
type SetupAnalyzer struct {
	market   domrepo.MarketData
	engine   domsvc.IndicatorEngine
	bt       *backtest.Backtester
	data     config.DataConfig
	strategy config.StrategyConfig
	l        *applogger.Logger
}

func NewSetupAnalyzer(market domrepo.MarketData, engine domsvc.IndicatorEngine, bt *backtest.Backtester, cfg *config.Config, l *applogger.Logger) *SetupAnalyzer {
	if l == nil {
		l = applogger.Nop()
	}
	return &SetupAnalyzer{market: market, engine: engine, bt: bt, data: cfg.Data, strategy: cfg.Strategy, l: l}
}

// SetupRun is one analyzed setup with what is needed to judge and price it.
type SetupRun struct {
	models.SetupBacktest
	Elite config.EliteConfig
	Last  models.Bar
}

type eliteDetector struct {
	setup.Detector
	elite config.EliteConfig
}

// Analyze locates signals for each enabled setup. With full=false, simulation only
// runs for setups that are live today and have enough history to be judged.
func (a *SetupAnalyzer) Analyze(ctx context.Context, in models.Instrument, daily []models.Bar, full, optimize bool) ([]SetupRun, error) {
	dets, err := a.detectors(ctx, in.Symbol, daily)
	if err != nil {
		return nil, err
	}

	out := make([]SetupRun, 0, len(dets))
	for _, det := range dets {
		bars := det.Bars()
		if len(bars) == 0 {
			continue
		}
		run := SetupRun{Elite: det.elite, Last: bars[len(bars)-1]}
		sb := models.SetupBacktest{
			Setup:     det.Name(),
			Timeframe: string(det.Timeframe()),
			Signals:   setup.Locate(in.Symbol, det, a.bt.LookAhead()),
			Live:      setup.Live(det),
		}
		if full || (sb.Live && len(sb.Signals) >= a.bt.MinTrades()) {
			sb.Outcomes, sb.Stats = a.bt.Evaluate(bars, sb.Signals, in.StopLoss, in.TakeProfit)
			if optimize {
				if best, ok := a.bt.Optimize(bars, sb.Signals); ok {
					sb.Optimized = &best
				}
			}
		}
		run.SetupBacktest = sb
		out = append(out, run)
	}
	return out, nil
}

func (a *SetupAnalyzer) detectors(ctx context.Context, symbol string, daily []models.Bar) ([]eliteDetector, error) {
	var dets []eliteDetector
	resampled := features.ResampleWeekly(daily)

	if d := a.strategy.Daily; d.Enabled {
		ind, err := a.engine.Compute(daily, d.Indicators)
		if err != nil {
			return nil, fmt.Errorf("daily indicators: %w", err)
		}
		wInd, err := a.engine.Compute(resampled, d.WeeklyIndicators)
		if err != nil {
			return nil, fmt.Errorf("weekly indicators: %w", err)
		}
		dets = append(dets, eliteDetector{setup.NewDailySetup(d, daily, ind, resampled, wInd), d.Elite})
	}

	if w := a.strategy.Weekly; w.Enabled {
		weekly := a.weeklyBars(ctx, symbol, resampled)
		ind, err := a.engine.Compute(weekly, w.Indicators)
		if err != nil {
			return nil, fmt.Errorf("weekly breakout indicators: %w", err)
		}
		dets = append(dets, eliteDetector{setup.NewWeeklyBreakout(w, weekly, ind), w.Elite})
	}
	return dets, nil
}

// weeklyBars prefers a fetched weekly series, which reaches further back than the
// daily period, and falls back to the resampled one.
func (a *SetupAnalyzer) weeklyBars(ctx context.Context, symbol string, resampled []models.Bar) []models.Bar {
	if a.data.WeeklyPeriod == "" {
		return resampled
	}
	weekly, err := a.market.Fetch(ctx, symbol, a.data.WeeklyPeriod, domrepo.TF1wk)
	if err != nil || len(weekly) == 0 {
		a.l.Debug("weekly fetch fell back to resampled bars",
			applogger.Symbol(symbol),
			applogger.Error(err),
		)
		return resampled
	}
	return weekly
}
