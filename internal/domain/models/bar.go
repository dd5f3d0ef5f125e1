package models

import "time"

// Bar is one OHLCV record. Series are ordered by strictly increasing Time.
type Bar struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

// Range returns high minus low.
func (b Bar) Range() float64 { return b.High - b.Low }

// IndicatorSet holds indicator series aligned to bar indices. NaN marks an undefined value.
type IndicatorSet struct {
	EMA         []float64
	DIPlus      []float64
	DIMinus     []float64
	ADX         []float64
	StochK      []float64
	StochD      []float64
	OBV         []float64
	OBVAvg      []float64
	HighestHigh []float64
}

// Len returns the aligned series length.
func (s IndicatorSet) Len() int { return len(s.EMA) }
