package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"EliteScan/internal/domain/models"
)

// Stochastic returns the slow %K (raw %K smoothed over smooth bars) and %D (SMA of %K over d bars).
// Both are defined from index (k-1)+(smooth-1)+(d-1). A flat high-low window leaves raw %K
// undefined, and so every smoothed value that reads it.
func Stochastic(bars []models.Bar, k, smooth, d int) (pctK, pctD []float64) {
	n := len(bars)
	smooth, d = max(smooth, 1), max(d, 1)
	lookback := (k - 1) + (smooth - 1) + (d - 1)
	if k <= 0 || n <= lookback {
		return nanSlice(n), nanSlice(n)
	}
	s := splitHLC(bars)
	pctK, pctD = talib.Stoch(s.high, s.low, s.close, k, smooth, talib.SMA, d, talib.SMA)
	pctK = undefinedBefore(pctK, lookback)
	pctD = undefinedBefore(pctD, lookback)

	hh := RollingMax(s.high, k)
	ll := RollingMin(s.low, k)
	lastFlat := -1 << 30
	for i := k - 1; i < n; i++ {
		if hh[i] == ll[i] {
			lastFlat = i
		}
		if i-lastFlat < smooth {
			pctK[i] = math.NaN()
		}
		if i-lastFlat < smooth+d-1 {
			pctD[i] = math.NaN()
		}
	}
	return pctK, pctD
}

// OBV is cumulative on-balance volume seeded with the first bar's volume.
func OBV(bars []models.Bar) []float64 {
	if len(bars) == 0 {
		return nil
	}
	closes := make([]float64, len(bars))
	vols := make([]float64, len(bars))
	for i, b := range bars {
		closes[i], vols[i] = b.Close, b.Volume
	}
	return talib.Obv(closes, vols)
}
