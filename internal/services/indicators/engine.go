package indicators

import (
	"fmt"

	"EliteScan/internal/domain/models"
	domsvc "EliteScan/internal/domain/service"
	"EliteScan/pkg/config"
)

// Engine is the in-process IndicatorEngine.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

var _ domsvc.IndicatorEngine = (*Engine)(nil)

func (e *Engine) Compute(bars []models.Bar, p config.IndicatorConfig) (models.IndicatorSet, error) {
	if p.EMAPeriod <= 0 || p.DMIPeriod <= 0 || p.StochK <= 0 {
		return models.IndicatorSet{}, fmt.Errorf("invalid indicator periods: %+v", p)
	}
	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
	}

	set := models.IndicatorSet{EMA: EMA(closes, p.EMAPeriod)}
	set.DIPlus, set.DIMinus, set.ADX = DMI(bars, p.DMIPeriod)
	set.StochK, set.StochD = Stochastic(bars, p.StochK, p.StochSmooth, p.StochD)
	set.OBV = OBV(bars)
	set.OBVAvg = SMA(set.OBV, p.OBVAvgPeriod)
	set.HighestHigh = RollingMax(highs, p.BreakoutLookback)
	return set, nil
}
