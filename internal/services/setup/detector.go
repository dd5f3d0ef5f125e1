package setup

import (
	"EliteScan/internal/domain/models"
	"EliteScan/internal/domain/repository"
	"EliteScan/internal/services/features"
	"EliteScan/pkg/config"
)

// Detector evaluates one setup over one bar series.
type Detector interface {
	Name() string
	Timeframe() repository.Timeframe
	Bars() []models.Bar
	// Warmup is the first index at which the setup may be evaluated.
	Warmup() int
	Qualifies(i int) bool
}

type dailySetup struct {
	cfg     config.DailySetupConfig
	bars    []models.Bar
	ind     models.IndicatorSet
	weekly  []models.Bar
	wInd    models.IndicatorSet
	aligner *features.WeeklyAligner
	filter  TrendFilter
	trigger Trigger
}

// NewDailySetup builds the multi-timeframe daily setup. weekly must be derived from
// (or aligned with) daily; lookups go through a WeeklyAligner.
func NewDailySetup(cfg config.DailySetupConfig, daily []models.Bar, ind models.IndicatorSet, weekly []models.Bar, wInd models.IndicatorSet) Detector {
	return &dailySetup{
		cfg:     cfg,
		bars:    daily,
		ind:     ind,
		weekly:  weekly,
		wInd:    wInd,
		aligner: features.NewWeeklyAligner(daily, weekly),
		filter:  NewTrendFilter(cfg.Filter),
		trigger: NewTrigger(cfg.Trigger),
	}
}

func (d *dailySetup) Name() string                    { return d.cfg.Label }
func (d *dailySetup) Timeframe() repository.Timeframe { return repository.TF1d }
func (d *dailySetup) Bars() []models.Bar              { return d.bars }

func (d *dailySetup) Warmup() int {
	return max(d.cfg.WarmupBars, d.cfg.Indicators.Warmup())
}

func (d *dailySetup) Qualifies(i int) bool {
	if i < 1 || i >= len(d.bars) || i >= d.ind.Len() {
		return false
	}
	w, ok := d.aligner.At(i)
	if !ok || w >= d.wInd.Len() {
		return false
	}
	in := FilterInput{
		Close:         d.bars[i].Close,
		EMA:           d.ind.EMA[i],
		DIPlus:        d.ind.DIPlus[i],
		DIMinus:       d.ind.DIMinus[i],
		ADX:           d.ind.ADX[i],
		StochK:        d.ind.StochK[i],
		StochD:        d.ind.StochD[i],
		WeeklyClose:   d.weekly[w].Close,
		WeeklyEMA:     d.wInd.EMA[w],
		WeeklyDIPlus:  d.wInd.DIPlus[w],
		WeeklyDIMinus: d.wInd.DIMinus[w],
	}
	return d.filter.Qualifies(in) && d.trigger.Fires(d.bars, i)
}

type weeklyBreakout struct {
	cfg  config.WeeklySetupConfig
	bars []models.Bar
	ind  models.IndicatorSet
}

// NewWeeklyBreakout builds the weekly volume breakout: close above the weekly EMA,
// OBV above its average and close above the highest high of the prior lookback weeks.
func NewWeeklyBreakout(cfg config.WeeklySetupConfig, weekly []models.Bar, ind models.IndicatorSet) Detector {
	return &weeklyBreakout{cfg: cfg, bars: weekly, ind: ind}
}

func (w *weeklyBreakout) Name() string                    { return w.cfg.Label }
func (w *weeklyBreakout) Timeframe() repository.Timeframe { return repository.TF1wk }
func (w *weeklyBreakout) Bars() []models.Bar              { return w.bars }

func (w *weeklyBreakout) Warmup() int {
	return max(w.cfg.WarmupBars, w.cfg.Indicators.Warmup())
}

func (w *weeklyBreakout) Qualifies(i int) bool {
	if i < 1 || i >= len(w.bars) || i >= w.ind.Len() {
		return false
	}
	c := w.bars[i].Close
	ema, obv, obvAvg, prevHigh := w.ind.EMA[i], w.ind.OBV[i], w.ind.OBVAvg[i], w.ind.HighestHigh[i-1]
	if !defined(c, ema, obv, obvAvg, prevHigh) {
		return false
	}
	return c > ema && obv > obvAvg && c > prevHigh
}
