package setup

import (
	"EliteScan/internal/domain/models"
	"EliteScan/pkg/config"
)

const (
	PatternBreakout = "breakout"
	PatternReversal = "reversal"
	PatternAny      = "any"
)

// Trigger matches the entry candle pattern at a bar against its predecessors.
type Trigger struct {
	cfg config.TriggerConfig
}

func NewTrigger(cfg config.TriggerConfig) Trigger {
	return Trigger{cfg: cfg}
}

func (t Trigger) Fires(bars []models.Bar, i int) bool {
	switch t.cfg.Pattern {
	case PatternReversal:
		return Reversal(bars, i)
	case PatternAny:
		return t.breakout(bars, i) || Reversal(bars, i)
	default:
		return t.breakout(bars, i)
	}
}

func (t Trigger) breakout(bars []models.Bar, i int) bool {
	if i < 1 || i >= len(bars) {
		return false
	}
	return BreakoutCandle(bars[i-1], bars[i], t.cfg.BodyRatioMin, t.cfg.ClosePositionMin)
}

// BreakoutCandle is a strong bullish candle closing in the upper part of its range
// and above the previous high. A zero range never qualifies.
func BreakoutCandle(prev, cur models.Bar, bodyRatioMin, closePositionMin float64) bool {
	rng := cur.Range()
	if rng <= 0 {
		return false
	}
	if cur.Close <= cur.Open {
		return false
	}
	if (cur.Close-cur.Open)/rng <= bodyRatioMin {
		return false
	}
	if cur.Close <= cur.Low+closePositionMin*rng {
		return false
	}
	return cur.Close > prev.High
}

// Reversal matches a three-bar reversal or an inside bar.
func Reversal(bars []models.Bar, i int) bool {
	if i < 1 || i >= len(bars) {
		return false
	}
	cur, prev := bars[i], bars[i-1]
	if cur.High <= prev.High && cur.Low >= prev.Low {
		return true
	}
	if i < 2 {
		return false
	}
	return prev.Low < bars[i-2].Low && cur.Low > prev.Low
}
