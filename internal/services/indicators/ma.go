package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// undefinedBefore replaces talib's zero-filled lookback prefix with NaN.
func undefinedBefore(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// SMA over the last p points; NaN until the window is full.
func SMA(x []float64, p int) []float64 {
	if p <= 0 || len(x) < p {
		return nanSlice(len(x))
	}
	return undefinedBefore(talib.Sma(x, p), p-1)
}

// EMA with smoothing 2/(p+1), seeded with the SMA of the first p points.
func EMA(x []float64, p int) []float64 {
	if p <= 0 || len(x) < p {
		return nanSlice(len(x))
	}
	return undefinedBefore(talib.Ema(x, p), p-1)
}

// RollingMax is the maximum of the last p points including the current one.
func RollingMax(x []float64, p int) []float64 {
	if p <= 0 || len(x) < p {
		return nanSlice(len(x))
	}
	return undefinedBefore(talib.Max(x, p), p-1)
}

// RollingMin is the minimum of the last p points including the current one.
func RollingMin(x []float64, p int) []float64 {
	if p <= 0 || len(x) < p {
		return nanSlice(len(x))
	}
	return undefinedBefore(talib.Min(x, p), p-1)
}
