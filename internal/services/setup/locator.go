package setup

import "EliteScan/internal/domain/models"

// firstIndex is the earliest evaluable bar; reversal patterns read two predecessors.
func firstIndex(det Detector) int {
	return max(det.Warmup(), 2)
}

// Locate returns every historical signal in chronological order. Bars inside the
// final lookAhead window are never emitted, so each signal has a full forward window.
func Locate(symbol string, det Detector, lookAhead int) []models.Signal {
	bars := det.Bars()
	last := len(bars) - lookAhead - 1
	var out []models.Signal
	for i := firstIndex(det); i <= last; i++ {
		if det.Qualifies(i) {
			out = append(out, models.Signal{
				Symbol:    symbol,
				Index:     i,
				Timeframe: string(det.Timeframe()),
				Setup:     det.Name(),
			})
		}
	}
	return out
}

// Live reports whether the setup holds on the most recent bar.
func Live(det Detector) bool {
	i := len(det.Bars()) - 1
	if i < firstIndex(det) {
		return false
	}
	return det.Qualifies(i)
}
