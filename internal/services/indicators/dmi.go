package indicators

import (
	talib "github.com/markcheno/go-talib"

	"EliteScan/internal/domain/models"
)

type hlc struct {
	high, low, close []float64
}

func splitHLC(bars []models.Bar) hlc {
	s := hlc{
		high:  make([]float64, len(bars)),
		low:   make([]float64, len(bars)),
		close: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.high[i], s.low[i], s.close[i] = b.High, b.Low, b.Close
	}
	return s
}

// DMI returns Wilder's DI+, DI- and ADX for period p.
// DI values are defined from index p, ADX from index 2p-1.
func DMI(bars []models.Bar, p int) (plus, minus, adx []float64) {
	n := len(bars)
	if p <= 1 || n <= p {
		return nanSlice(n), nanSlice(n), nanSlice(n)
	}
	s := splitHLC(bars)
	plus = undefinedBefore(talib.PlusDI(s.high, s.low, s.close, p), p)
	minus = undefinedBefore(talib.MinusDI(s.high, s.low, s.close, p), p)
	if n <= 2*p-1 {
		return plus, minus, nanSlice(n)
	}
	adx = undefinedBefore(talib.Adx(s.high, s.low, s.close, p), 2*p-1)
	return plus, minus, adx
}
