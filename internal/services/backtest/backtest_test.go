package backtest

import (
	"math"
	"testing"

	"EliteScan/internal/domain/models"
	"EliteScan/pkg/config"
)

func testConfig() config.BacktestConfig {
	return config.BacktestConfig{
		LookAheadBars:  21,
		MinTrades:      5,
		EntryRule:      EntrySignalClose,
		StopLossGrid:   []float64{0.03, 0.05},
		TakeProfitGrid: []float64{0.06, 0.08},
	}
}

func flat(n int, px float64) []models.Bar {
	out := make([]models.Bar, n)
	for i := range out {
		out[i] = models.Bar{Open: px, High: px, Low: px, Close: px}
	}
	return out
}

func TestStopWinsTie(t *testing.T) {
	bars := flat(5, 100)
	bars[1] = models.Bar{Open: 100, High: 120, Low: 80, Close: 100}
	sim := NewSimulator(testConfig())
	for k := 0; k < 3; k++ {
		o, ok := sim.Simulate(bars, 0, 0.05, 0.08)
		if !ok || o.Return != -0.05 || o.ExitOffset != 1 {
			t.Fatalf("bar touching both levels must be a loss, got %+v ok=%v", o, ok)
		}
	}
}

func TestNoExitIsExcluded(t *testing.T) {
	bars := flat(40, 100)
	sim := NewSimulator(testConfig())
	if _, ok := sim.Simulate(bars, 0, 0.05, 0.08); ok {
		t.Fatalf("flat series should not resolve")
	}
	// target sits just beyond the window
	bars[22].High = 200
	if _, ok := sim.Simulate(bars, 0, 0.05, 0.08); ok {
		t.Fatalf("exit after the look-ahead window must not count")
	}
	bars[21].High = 200
	if o, ok := sim.Simulate(bars, 0, 0.05, 0.08); !ok || o.ExitOffset != 21 {
		t.Fatalf("exit on the last window bar should count, got %+v", o)
	}
}

func TestPriorHighsEntry(t *testing.T) {
	cfg := testConfig()
	cfg.EntryRule = EntryPriorHighs
	bars := flat(4, 100)
	bars[0].High, bars[1].High = 103, 101
	if got := NewSimulator(cfg).EntryPrice(bars, 2); got != 103 {
		t.Fatalf("want max of two preceding highs, got %v", got)
	}
	if got := NewSimulator(cfg).EntryPrice(bars, 1); got != 100 {
		t.Fatalf("without two predecessors fall back to close, got %v", got)
	}
}

// risingFrom builds a flat series that climbs 0.5% per bar after start.
func risingFrom(n, start int) []models.Bar {
	out := make([]models.Bar, n)
	px := 100.0
	for i := range out {
		if i > start {
			px *= 1.005
		}
		out[i] = models.Bar{Open: px, High: px, Low: px * 0.999, Close: px}
	}
	return out
}

func TestTrendResolvesAtExpectedBar(t *testing.T) {
	bars := risingFrom(1260, 100)
	sim := NewSimulator(testConfig())
	o, ok := sim.Simulate(bars, 100, 0.05, 0.08)
	if !ok || !o.Win() {
		t.Fatalf("expected a winning trade, got %+v ok=%v", o, ok)
	}
	if got := 100 + o.ExitOffset; got != 116 {
		t.Fatalf("want exit at bar 116, got %d", got)
	}

	outcomes := sim.Run(bars, []models.Signal{{Index: 100}}, 0.05, 0.08)
	st := Aggregate(outcomes, 5, 0.05, 0.08)
	if st.Valid || st.Trades != 1 {
		t.Fatalf("single trade must give the sentinel, got %+v", st)
	}
}

func outcomes(wins, losses int, sl, tp float64) []models.TradeOutcome {
	var out []models.TradeOutcome
	for i := 0; i < wins; i++ {
		out = append(out, models.TradeOutcome{Return: tp})
	}
	for i := 0; i < losses; i++ {
		out = append(out, models.TradeOutcome{Return: -sl})
	}
	return out
}

func TestAggregateSentinelEvenWhenAllWin(t *testing.T) {
	st := Aggregate(outcomes(4, 0, 0.05, 0.08), 5, 0.05, 0.08)
	if st.Valid {
		t.Fatalf("below minimum must be the sentinel")
	}
	if st.Elite(0, -1) {
		t.Fatalf("sentinel must never qualify")
	}
}

func TestAggregateExpectancyIdentity(t *testing.T) {
	sl, tp := 0.04, 0.08
	for wins := 0; wins <= 12; wins++ {
		st := Aggregate(outcomes(wins, 12-wins, sl, tp), 5, sl, tp)
		if !st.Valid || st.Trades != 12 {
			t.Fatalf("expected valid stats, got %+v", st)
		}
		if st.WinRate < 0 || st.WinRate > 1 {
			t.Fatalf("win rate out of range: %v", st.WinRate)
		}
		want := st.WinRate*tp - (1-st.WinRate)*sl
		if math.Abs(st.Expectancy-want) > 1e-12 {
			t.Fatalf("expectancy %v, want %v", st.Expectancy, want)
		}
		if wins == 12 && st.PayoffRatio != nil {
			t.Fatalf("payoff is undefined without losers")
		}
		if wins > 0 && wins < 12 && math.Abs(*st.PayoffRatio-2) > 1e-12 {
			t.Fatalf("payoff want 2, got %v", *st.PayoffRatio)
		}
	}
}

func TestOutcomesNeverExceedSignals(t *testing.T) {
	bars := risingFrom(300, 50)
	signals := []models.Signal{{Index: 10}, {Index: 60}, {Index: 120}, {Index: 290}}
	got := NewSimulator(testConfig()).Run(bars, signals, 0.05, 0.08)
	if len(got) > len(signals) {
		t.Fatalf("more outcomes than signals")
	}
}

// zigzag makes each signal bar resolve on the next bar: a 6% pop then a 4% drop.
func zigzag(signals int) ([]models.Bar, []models.Signal) {
	bars := flat(signals*2+1, 100)
	var sigs []models.Signal
	for k := 0; k < signals; k++ {
		i := k * 2
		sigs = append(sigs, models.Signal{Index: i})
		if k%3 == 0 {
			bars[i+1].Low = 95.5 // loss at 3%, survives 5%
			bars[i+1].High = 100
		} else {
			bars[i+1].High = 106.5 // hits 6% target, not 8%
		}
	}
	return bars, sigs
}

func TestOptimizerPicksBestExpectancy(t *testing.T) {
	bars, sigs := zigzag(12)
	cfg := testConfig()
	cfg.LookAheadBars = 1
	st, ok := NewBacktester(cfg).Optimize(bars, sigs)
	if !ok {
		t.Fatalf("expected a qualifying pair")
	}
	// 5% stop survives every dip, 6% target hits 8 of 12; 8% target never hits.
	if st.StopLoss != 0.05 || st.TakeProfit != 0.06 {
		t.Fatalf("unexpected best pair %v/%v", st.StopLoss, st.TakeProfit)
	}
	if st.Trades != 8 || st.WinRate != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestOptimizerTieKeepsFirstPair(t *testing.T) {
	bars := flat(30, 100)
	var sigs []models.Signal
	for i := 0; i < 6; i++ {
		bars[i*2+1].High = 130
		sigs = append(sigs, models.Signal{Index: i * 2})
	}
	cfg := testConfig()
	cfg.LookAheadBars = 1
	cfg.TakeProfitGrid = []float64{0.08, 0.08}
	st, ok := NewBacktester(cfg).Optimize(bars, sigs)
	if !ok || st.StopLoss != 0.03 {
		t.Fatalf("ties should keep the first stop-loss, got %+v", st)
	}
}

func TestOptimizerNoQualifyingPair(t *testing.T) {
	bars := flat(10, 100)
	if _, ok := NewBacktester(testConfig()).Optimize(bars, []models.Signal{{Index: 1}}); ok {
		t.Fatalf("no pair should qualify")
	}
}
