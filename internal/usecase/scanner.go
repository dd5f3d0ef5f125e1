package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	"EliteScan/internal/services/backtest"
	"EliteScan/pkg/config"
	applogger "EliteScan/pkg/logger"
)

// ProgressFunc is called once per finished instrument, in completion order.
type ProgressFunc func(models.Progress)

// Scanner runs the setup pipeline over a universe with a bounded worker pool.
type Scanner struct {
	market   domrepo.MarketData
	analyzer *SetupAnalyzer
	bt       *backtest.Backtester
	metrics  domrepo.Metrics
	scan     config.ScanConfig
	data     config.DataConfig
	optimize bool
	l        *applogger.Logger
}

func NewScanner(
	market domrepo.MarketData,
	analyzer *SetupAnalyzer,
	bt *backtest.Backtester,
	metrics domrepo.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *Scanner {
	if l == nil {
		l = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Scanner{
		market:   market,
		analyzer: analyzer,
		bt:       bt,
		metrics:  metrics,
		scan:     cfg.Scan,
		data:     cfg.Data,
		optimize: cfg.Backtest.Optimize,
		l:        l,
	}
}

// Scan evaluates every instrument. Instrument failures are recorded in the report and
// never abort the scan; cancelling ctx stops launching new instruments.
func (s *Scanner) Scan(ctx context.Context, id string, universe models.Universe, progress ProgressFunc) (*models.ScanReport, error) {
	if universe.Len() == 0 {
		return nil, models.ErrEmptyUniverse
	}
	if id == "" {
		id = uuid.NewString()
	}

	instruments := universe.Instruments()
	report := &models.ScanReport{ID: id, StartedAt: time.Now().UTC(), Total: len(instruments)}
	log := s.l.With(applogger.String("scan_id", id))
	log.Info("scan started", applogger.Int("instruments", len(instruments)), applogger.Int("workers", s.scan.Workers))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(max(1, s.scan.Workers))

	for _, in := range instruments {
		in := in
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome := s.scanInstrument(ctx, in)
			s.metrics.RecordInstrument(string(outcome.Status))
			if outcome.Status != models.StatusOK {
				log.Debug("instrument not scanned",
					applogger.Symbol(in.Symbol),
					applogger.String("status", string(outcome.Status)),
					applogger.String("reason", outcome.Reason),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			report.Add(outcome)
			if progress != nil {
				progress(models.Progress{Completed: report.Completed, Total: report.Total, Symbol: in.Symbol})
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Cancelled = ctx.Err() != nil
	report.FinishedAt = time.Now().UTC()
	report.Sort()
	s.metrics.RecordLatency("scan", report.FinishedAt.Sub(report.StartedAt).Seconds())

	log.Info("scan finished",
		applogger.Int("completed", report.Completed),
		applogger.Int("results", len(report.Results)),
		applogger.Int("skipped", len(report.Skipped)),
		applogger.Int("failed", len(report.Failed)),
		applogger.Bool("cancelled", report.Cancelled),
	)
	return report, nil
}

func (s *Scanner) scanInstrument(ctx context.Context, in models.Instrument) models.InstrumentOutcome {
	ctx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	daily, err := s.fetchDaily(ctx, in.Symbol)
	if err != nil {
		return failure(in.Symbol, err)
	}

	setups, err := s.analyzer.Analyze(ctx, in, daily, false, s.optimize)
	if err != nil {
		s.metrics.RecordError("analyze")
		return failure(in.Symbol, err)
	}

	outcome := models.InstrumentOutcome{Symbol: in.Symbol, Status: models.StatusOK}
	for _, run := range setups {
		s.metrics.RecordSignals(run.Setup, len(run.Signals))
		if rec, ok := s.qualify(in, run); ok {
			s.metrics.RecordResult(run.Setup)
			outcome.Results = append(outcome.Results, rec)
		}
	}
	return outcome
}

// withFetchTimeout bounds all provider calls made for one instrument.
func (s *Scanner) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.data.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.data.FetchTimeout)
}

// fetchDaily classifies empty or short series as skips.
func (s *Scanner) fetchDaily(ctx context.Context, symbol string) ([]models.Bar, error) {
	start := time.Now()
	bars, err := s.market.Fetch(ctx, symbol, s.data.DailyPeriod, domrepo.TF1d)
	s.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.metrics.RecordError("fetch")
		}
		return nil, fmt.Errorf("fetch daily: %w", err)
	}
	if len(bars) == 0 {
		return nil, models.ErrDataUnavailable
	}
	if len(bars) < s.scan.MinHistoryBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", models.ErrInsufficientHistory, len(bars), s.scan.MinHistoryBars)
	}
	return bars, nil
}

// qualify turns a live setup with elite statistics into a result record priced off
// the most recent bar.
func (s *Scanner) qualify(in models.Instrument, run SetupRun) (models.ResultRecord, bool) {
	if !run.Live || len(run.Signals) < s.bt.MinTrades() {
		return models.ResultRecord{}, false
	}
	st, optimized := run.Stats, false
	if run.Optimized != nil {
		st, optimized = *run.Optimized, true
	}
	if !st.Elite(run.Elite.WinRate, run.Elite.Expectancy) {
		return models.ResultRecord{}, false
	}

	entry := run.Last.Close
	return models.ResultRecord{
		Symbol:      in.Symbol,
		AssetClass:  in.Class,
		Setup:       run.Setup,
		Timeframe:   run.Timeframe,
		WinRate:     st.WinRate,
		Expectancy:  st.Expectancy,
		PayoffRatio: st.PayoffRatio,
		Trades:      st.Trades,
		StopLoss:    st.StopLoss,
		TakeProfit:  st.TakeProfit,
		Optimized:   optimized,
		Entry:       entry,
		Stop:        entry * (1 - st.StopLoss),
		Target:      entry * (1 + st.TakeProfit),
		AsOf:        run.Last.Time,
	}, true
}

// Backtest returns the full historical view of every enabled setup for one instrument.
func (s *Scanner) Backtest(ctx context.Context, in models.Instrument, optimize bool) (*models.InstrumentBacktest, error) {
	ctx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	daily, err := s.fetchDaily(ctx, in.Symbol)
	if err != nil {
		return nil, err
	}
	runs, err := s.analyzer.Analyze(ctx, in, daily, true, optimize)
	if err != nil {
		return nil, err
	}
	out := &models.InstrumentBacktest{Symbol: in.Symbol, AssetClass: in.Class, Bars: len(daily)}
	for _, r := range runs {
		out.Setups = append(out.Setups, r.SetupBacktest)
	}
	return out, nil
}

// ReasonCancelled marks instruments interrupted by a cancelled scan.
const ReasonCancelled = "cancelled"

func failure(symbol string, err error) models.InstrumentOutcome {
	switch {
	case errors.Is(err, context.Canceled):
		return models.InstrumentOutcome{Symbol: symbol, Status: models.StatusSkipped, Reason: ReasonCancelled}
	case errors.Is(err, models.ErrDataUnavailable), errors.Is(err, models.ErrInsufficientHistory):
		return models.InstrumentOutcome{Symbol: symbol, Status: models.StatusSkipped, Reason: err.Error()}
	}
	return models.InstrumentOutcome{Symbol: symbol, Status: models.StatusFailed, Reason: err.Error()}
}

type nopMetrics struct{}

func (nopMetrics) RecordInstrument(string)       {}
func (nopMetrics) RecordSignals(string, int)     {}
func (nopMetrics) RecordResult(string)           {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}
