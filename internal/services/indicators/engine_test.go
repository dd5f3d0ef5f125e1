package indicators

import (
	"math"
	"testing"
	"time"

	"EliteScan/internal/domain/models"
	"EliteScan/pkg/config"
)

func trendBars(n int, step float64) []models.Bar {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Bar, n)
	px := 100.0
	for i := range out {
		out[i] = models.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   px,
			High:   px * 1.01,
			Low:    px * 0.99,
			Close:  px * (1 + step/2),
			Volume: 1000,
		}
		px *= 1 + step
	}
	return out
}

func TestSMAWarmup(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5, 6, 7}, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("lookback prefix must be undefined, got %v", got[:2])
	}
	if got[2] != 2 || got[6] != 6 {
		t.Fatalf("unexpected averages: %v", got)
	}
	if out := SMA([]float64{1, 2}, 3); len(out) != 2 || !math.IsNaN(out[1]) {
		t.Fatalf("short series should be undefined: %v", out)
	}
}

func TestRollingExtremes(t *testing.T) {
	x := []float64{3, 1, 4, 1, 5, 9, 2}
	hi, lo := RollingMax(x, 3), RollingMin(x, 3)
	if !math.IsNaN(hi[1]) || !math.IsNaN(lo[1]) {
		t.Fatalf("lookback prefix must be undefined")
	}
	if hi[2] != 4 || hi[6] != 9 || lo[2] != 1 || lo[6] != 2 {
		t.Fatalf("unexpected extremes: %v %v", hi, lo)
	}
}

func TestEMASeededWithSMA(t *testing.T) {
	got := EMA([]float64{2, 4, 6, 8}, 3)
	if !math.IsNaN(got[1]) || got[2] != 4 {
		t.Fatalf("seed should be SMA: %v", got)
	}
	if got[3] != 6 {
		t.Fatalf("want 6, got %v", got[3])
	}
	if out := EMA([]float64{1, 2}, 3); !math.IsNaN(out[1]) {
		t.Fatalf("short series should be undefined")
	}
}

func TestDMIUptrend(t *testing.T) {
	bars := trendBars(60, 0.01)
	plus, minus, adx := DMI(bars, 14)
	if !math.IsNaN(plus[13]) || math.IsNaN(plus[14]) {
		t.Fatalf("DI should start at index 14")
	}
	if !math.IsNaN(adx[26]) || math.IsNaN(adx[27]) {
		t.Fatalf("ADX should start at index 27")
	}
	if plus[59] <= minus[59] {
		t.Fatalf("uptrend should have DI+ > DI-: %v %v", plus[59], minus[59])
	}
	if adx[59] < 50 {
		t.Fatalf("steady trend should have strong ADX, got %v", adx[59])
	}
}

func TestStochasticFlatRangeUndefined(t *testing.T) {
	bars := make([]models.Bar, 20)
	for i := range bars {
		bars[i] = models.Bar{Open: 10, High: 10, Low: 10, Close: 10}
	}
	k, d := Stochastic(bars, 14, 3, 3)
	if !math.IsNaN(k[19]) || !math.IsNaN(d[19]) {
		t.Fatalf("flat range should be undefined: %v %v", k[19], d[19])
	}
}

func TestStochasticWarmupAndRecovery(t *testing.T) {
	bars := trendBars(40, 0.01)
	// bars 19 and 20 make the 2-bar range ending at 20 flat
	for _, i := range []int{19, 20} {
		bars[i] = models.Bar{Time: bars[i].Time, Open: 10, High: 10, Low: 10, Close: 10}
	}
	k, d := Stochastic(bars, 2, 3, 3)
	if !math.IsNaN(k[4]) || math.IsNaN(k[5]) {
		t.Fatalf("slow %%K should start at index 5: %v %v", k[4], k[5])
	}
	if !math.IsNaN(k[22]) || !math.IsNaN(d[24]) {
		t.Fatalf("windows holding the flat bar must be undefined: k=%v d=%v", k[22], d[24])
	}
	if math.IsNaN(k[23]) || math.IsNaN(d[25]) {
		t.Fatalf("values past the flat bar should recover: k=%v d=%v", k[23], d[25])
	}
}

func TestOBV(t *testing.T) {
	bars := []models.Bar{{Close: 10, Volume: 5}, {Close: 11, Volume: 3}, {Close: 10, Volume: 2}, {Close: 10, Volume: 7}}
	got := OBV(bars)
	want := []float64{5, 8, 6, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("obv[%d] want %v got %v", i, want[i], got[i])
		}
	}
}

func TestEngineCompute(t *testing.T) {
	bars := trendBars(80, 0.005)
	p := config.IndicatorConfig{EMAPeriod: 21, DMIPeriod: 14, StochK: 14, StochSmooth: 3, StochD: 3, OBVAvgPeriod: 10, BreakoutLookback: 10}
	set, err := NewEngine().Compute(bars, p)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if set.Len() != len(bars) || len(set.HighestHigh) != len(bars) || len(set.OBVAvg) != len(bars) {
		t.Fatalf("series must be aligned to bars")
	}
	w := p.Warmup()
	for name, s := range map[string][]float64{"ema": set.EMA, "di+": set.DIPlus, "adx": set.ADX, "k": set.StochK, "d": set.StochD, "obvavg": set.OBVAvg} {
		if math.IsNaN(s[w]) {
			t.Fatalf("%s undefined at warm-up index %d", name, w)
		}
	}
	if _, err := NewEngine().Compute(bars, config.IndicatorConfig{}); err == nil {
		t.Fatalf("expected error for zero periods")
	}
}
