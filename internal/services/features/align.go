package features

import "EliteScan/internal/domain/models"

// WeeklyAligner maps each daily index to the latest weekly bar whose time is not
// after the daily bar's time. -1 means no weekly bar has closed yet.
type WeeklyAligner struct {
	index []int
}

func NewWeeklyAligner(daily, weekly []models.Bar) *WeeklyAligner {
	idx := make([]int, len(daily))
	w := -1
	for i, d := range daily {
		for w+1 < len(weekly) && !weekly[w+1].Time.After(d.Time) {
			w++
		}
		idx[i] = w
	}
	return &WeeklyAligner{index: idx}
}

// At returns the weekly index for daily index i.
func (a *WeeklyAligner) At(i int) (int, bool) {
	if i < 0 || i >= len(a.index) || a.index[i] < 0 {
		return -1, false
	}
	return a.index[i], true
}
