package setup

import (
	"math"
	"testing"
	"time"

	"EliteScan/internal/domain/models"
	"EliteScan/internal/domain/repository"
	"EliteScan/internal/services/features"
	"EliteScan/pkg/config"
)

var nan = math.NaN()

func TestBreakoutCandle(t *testing.T) {
	prev := models.Bar{Open: 100, High: 101, Low: 99, Close: 100}
	cases := []struct {
		name string
		cur  models.Bar
		want bool
	}{
		{"strong close above prior high", models.Bar{Open: 100, High: 103, Low: 99.5, Close: 102.8}, true},
		{"bearish candle", models.Bar{Open: 103, High: 103.5, Low: 99, Close: 102}, false},
		{"small body", models.Bar{Open: 101.5, High: 104, Low: 99, Close: 102}, false},
		{"close in lower half", models.Bar{Open: 99.2, High: 110, Low: 99, Close: 104}, false},
		{"below prior high", models.Bar{Open: 99.5, High: 101, Low: 99.4, Close: 100.9}, false},
		{"zero range", models.Bar{Open: 102, High: 102, Low: 102, Close: 102}, false},
	}
	for _, c := range cases {
		if got := BreakoutCandle(prev, c.cur, 0.4, 0.6); got != c.want {
			t.Fatalf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestReversal(t *testing.T) {
	threeBar := []models.Bar{
		{High: 10, Low: 8},
		{High: 11, Low: 7},
		{High: 12, Low: 7.5},
	}
	if !Reversal(threeBar, 2) {
		t.Fatalf("three-bar reversal should fire")
	}
	inside := []models.Bar{{High: 10, Low: 8}, {High: 9.5, Low: 8.5}}
	if !Reversal(inside, 1) {
		t.Fatalf("inside bar should fire")
	}
	none := []models.Bar{{High: 10, Low: 8}, {High: 11, Low: 9}, {High: 12, Low: 10}}
	if Reversal(none, 2) {
		t.Fatalf("plain uptrend is not a reversal")
	}
	if Reversal(none, 0) {
		t.Fatalf("first bar has no predecessor")
	}
}

func TestTriggerPolicies(t *testing.T) {
	bars := []models.Bar{{Open: 9, High: 10, Low: 8, Close: 9}, {Open: 9, High: 9.5, Low: 8.5, Close: 9}}
	if NewTrigger(config.TriggerConfig{Pattern: PatternBreakout, BodyRatioMin: 0.4, ClosePositionMin: 0.6}).Fires(bars, 1) {
		t.Fatalf("inside bar is not a breakout")
	}
	if !NewTrigger(config.TriggerConfig{Pattern: PatternAny, BodyRatioMin: 0.4, ClosePositionMin: 0.6}).Fires(bars, 1) {
		t.Fatalf("any should accept the inside bar")
	}
}

func passingInput() FilterInput {
	return FilterInput{
		Close: 101, EMA: 95, DIPlus: 30, DIMinus: 10, ADX: 25, StochK: 50, StochD: 40,
		WeeklyClose: 101, WeeklyEMA: 90, WeeklyDIPlus: 25, WeeklyDIMinus: 15,
	}
}

func TestTrendFilter(t *testing.T) {
	f := NewTrendFilter(config.FilterConfig{ADXMin: 20, Momentum: "either", StochFloor: 20})
	if !f.Qualifies(passingInput()) {
		t.Fatalf("baseline should qualify")
	}

	mutations := map[string]func(*FilterInput){
		"undefined ema":       func(in *FilterInput) { in.EMA = nan },
		"undefined weekly":    func(in *FilterInput) { in.WeeklyEMA = nan },
		"below daily ema":     func(in *FilterInput) { in.Close = 90 },
		"below weekly ema":    func(in *FilterInput) { in.WeeklyClose = 80 },
		"di minus dominates":  func(in *FilterInput) { in.DIPlus = 5 },
		"weak adx":            func(in *FilterInput) { in.ADX = 10 },
		"undefined adx":       func(in *FilterInput) { in.ADX = nan },
		"no momentum":         func(in *FilterInput) { in.StochK, in.StochD = 15, 18 },
		"undefined momentum":  func(in *FilterInput) { in.StochK, in.StochD = nan, nan },
	}
	for name, mutate := range mutations {
		in := passingInput()
		mutate(&in)
		if f.Qualifies(in) {
			t.Fatalf("%s: should not qualify", name)
		}
	}
}

func TestTrendFilterPolicies(t *testing.T) {
	in := passingInput()
	in.StochK, in.StochD = 15, 10 // crossed but under the floor
	if NewTrendFilter(config.FilterConfig{Momentum: "floor", StochFloor: 20}).Qualifies(in) {
		t.Fatalf("floor policy should reject")
	}
	if !NewTrendFilter(config.FilterConfig{Momentum: "cross", StochFloor: 20}).Qualifies(in) {
		t.Fatalf("cross policy should accept")
	}

	in = passingInput()
	in.WeeklyDIPlus, in.WeeklyDIMinus = 10, 20
	if !NewTrendFilter(config.FilterConfig{Momentum: "either"}).Qualifies(in) {
		t.Fatalf("weekly dmi is optional by default")
	}
	if NewTrendFilter(config.FilterConfig{RequireWeeklyDMI: true, Momentum: "either"}).Qualifies(in) {
		t.Fatalf("weekly dmi required should reject")
	}
}

type stubDetector struct {
	bars   []models.Bar
	warmup int
	fire   func(i int) bool
}

func (s stubDetector) Name() string                    { return "stub" }
func (s stubDetector) Timeframe() repository.Timeframe { return repository.TF1d }
func (s stubDetector) Bars() []models.Bar              { return s.bars }
func (s stubDetector) Warmup() int                     { return s.warmup }
func (s stubDetector) Qualifies(i int) bool            { return s.fire(i) }

func always(int) bool { return true }

func TestLocateNeverEntersLookAheadWindow(t *testing.T) {
	det := stubDetector{bars: make([]models.Bar, 50), warmup: 5, fire: always}
	sigs := Locate("TEST", det, 21)
	if len(sigs) != 24 {
		t.Fatalf("want signals 5..28, got %d", len(sigs))
	}
	if sigs[0].Index != 5 || sigs[len(sigs)-1].Index != 28 {
		t.Fatalf("unexpected range %d..%d", sigs[0].Index, sigs[len(sigs)-1].Index)
	}
	for i, s := range sigs {
		if s.Index > len(det.bars)-21-1 {
			t.Fatalf("signal %d inside look-ahead window", s.Index)
		}
		if i > 0 && s.Index <= sigs[i-1].Index {
			t.Fatalf("signals not ordered")
		}
		if s.Symbol != "TEST" || s.Setup != "stub" || s.Timeframe != "1d" {
			t.Fatalf("unexpected signal %+v", s)
		}
	}
	if !Live(det) {
		t.Fatalf("live should evaluate the last bar")
	}
}

func TestLocateShortSeries(t *testing.T) {
	det := stubDetector{bars: make([]models.Bar, 20), warmup: 0, fire: always}
	if sigs := Locate("TEST", det, 21); len(sigs) != 0 {
		t.Fatalf("series shorter than the window has no signals, got %d", len(sigs))
	}
	det.warmup = 30
	if Live(det) {
		t.Fatalf("live before warm-up must be false")
	}
}

func weekdays(n int) []models.Bar {
	out := make([]models.Bar, 0, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for len(out) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, models.Bar{Time: d, Open: 100, High: 102, Low: 98, Close: 101, Volume: 1})
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDailySetupResolvesClosedWeekOnly(t *testing.T) {
	daily := weekdays(15)
	weekly := features.ResampleWeekly(daily)
	n := len(daily)
	ind := models.IndicatorSet{
		EMA: filled(n, 90), DIPlus: filled(n, 30), DIMinus: filled(n, 10), ADX: filled(n, 25),
		StochK: filled(n, 50), StochD: filled(n, 40),
	}
	wInd := models.IndicatorSet{
		EMA:    []float64{90, 120, 90},
		DIPlus: filled(3, nan), DIMinus: filled(3, nan),
	}
	cfg := config.DailySetupConfig{
		Label:   "Daily Elite",
		Filter:  config.FilterConfig{ADXMin: 20, Momentum: "either", StochFloor: 20},
		Trigger: config.TriggerConfig{Pattern: PatternReversal},
	}
	det := NewDailySetup(cfg, daily, ind, weekly, wInd)

	cases := map[int]bool{
		3:  false, // no week closed yet
		7:  true,  // mid week 1 sees week 0
		9:  false, // friday closes week 1, whose EMA is above close
		10: false, // monday still sees week 1
	}
	for i, want := range cases {
		if got := det.Qualifies(i); got != want {
			t.Fatalf("index %d: want %v, got %v", i, want, got)
		}
	}
	if det.Timeframe() != repository.TF1d || det.Name() != "Daily Elite" {
		t.Fatalf("unexpected detector identity")
	}
}

func TestWeeklyBreakout(t *testing.T) {
	bars := []models.Bar{{Close: 10, High: 11}, {Close: 12, High: 12.5}}
	ind := models.IndicatorSet{
		EMA:         []float64{nan, 11},
		OBV:         []float64{0, 100},
		OBVAvg:      []float64{nan, 50},
		HighestHigh: []float64{11, 12.5},
	}
	det := NewWeeklyBreakout(config.WeeklySetupConfig{Label: "Weekly Elite"}, bars, ind)
	if !det.Qualifies(1) {
		t.Fatalf("close above ema, obv above average and prior high should qualify")
	}
	ind.OBVAvg[1] = 150
	if det.Qualifies(1) {
		t.Fatalf("weak volume should not qualify")
	}
	ind.OBVAvg[1] = 50
	ind.HighestHigh[0] = 13
	if det.Qualifies(1) {
		t.Fatalf("close below prior high should not qualify")
	}
	if det.Qualifies(0) || det.Timeframe() != repository.TF1wk {
		t.Fatalf("first bar has no prior high")
	}
}
