package setup

import (
	"math"

	"EliteScan/pkg/config"
)

// FilterInput is the daily bar and its resolved weekly bar as seen by the trend filter.
type FilterInput struct {
	Close, EMA      float64
	DIPlus, DIMinus float64
	ADX             float64
	StochK, StochD  float64
	WeeklyClose     float64
	WeeklyEMA       float64
	WeeklyDIPlus    float64
	WeeklyDIMinus   float64
}

// TrendFilter qualifies a bar on trend, directional strength and momentum.
type TrendFilter struct {
	cfg config.FilterConfig
}

func NewTrendFilter(cfg config.FilterConfig) TrendFilter {
	return TrendFilter{cfg: cfg}
}

// Qualifies never errors: an undefined input simply fails the filter.
func (f TrendFilter) Qualifies(in FilterInput) bool {
	if !defined(in.Close, in.EMA, in.DIPlus, in.DIMinus, in.WeeklyClose, in.WeeklyEMA) {
		return false
	}
	if in.Close <= in.EMA || in.WeeklyClose <= in.WeeklyEMA {
		return false
	}
	if in.DIPlus <= in.DIMinus {
		return false
	}
	if f.cfg.RequireWeeklyDMI {
		if !defined(in.WeeklyDIPlus, in.WeeklyDIMinus) || in.WeeklyDIPlus <= in.WeeklyDIMinus {
			return false
		}
	}
	if f.cfg.ADXMin > 0 {
		if !defined(in.ADX) || in.ADX < f.cfg.ADXMin {
			return false
		}
	}
	return f.momentum(in.StochK, in.StochD)
}

func (f TrendFilter) momentum(k, d float64) bool {
	floor := defined(k) && k > f.cfg.StochFloor
	cross := defined(k, d) && k > d
	switch f.cfg.Momentum {
	case "floor":
		return floor
	case "cross":
		return cross
	default:
		return floor || cross
	}
}

func defined(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
