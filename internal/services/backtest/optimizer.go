package backtest

import (
	"github.com/samber/lo"

	"EliteScan/internal/domain/models"
)

// Optimizer sweeps a stop-loss x take-profit grid over a fixed signal set.
type Optimizer struct {
	sim       *Simulator
	minTrades int
	grid      []lo.Tuple2[float64, float64]
}

func NewOptimizer(sim *Simulator, minTrades int, stopLosses, takeProfits []float64) *Optimizer {
	grid := lo.FlatMap(stopLosses, func(sl float64, _ int) []lo.Tuple2[float64, float64] {
		return lo.Map(takeProfits, func(tp float64, _ int) lo.Tuple2[float64, float64] {
			return lo.T2(sl, tp)
		})
	})
	return &Optimizer{sim: sim, minTrades: minTrades, grid: grid}
}

// Optimize returns the valid pair with the highest expectancy. Equal expectancy keeps
// the earlier pair in grid order. ok is false when no pair reaches minTrades.
func (o *Optimizer) Optimize(bars []models.Bar, signals []models.Signal) (best models.BacktestStats, ok bool) {
	for _, pair := range o.grid {
		sl, tp := pair.Unpack()
		st := Aggregate(o.sim.Run(bars, signals, sl, tp), o.minTrades, sl, tp)
		if !st.Valid {
			continue
		}
		if !ok || st.Expectancy > best.Expectancy {
			best, ok = st, true
		}
	}
	return best, ok
}
