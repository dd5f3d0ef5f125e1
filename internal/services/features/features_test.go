package features

import (
	"testing"
	"time"

	"EliteScan/internal/domain/models"
)

// weekdays builds n business days starting on Monday 2024-01-01.
func weekdays(n int) []models.Bar {
	out := make([]models.Bar, 0, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for len(out) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			px := float64(100 + len(out))
			out = append(out, models.Bar{Time: d, Open: px, High: px + 2, Low: px - 1, Close: px + 1, Volume: 10})
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func TestResampleWeekly(t *testing.T) {
	daily := weekdays(12)
	weekly := ResampleWeekly(daily)
	if len(weekly) != 3 {
		t.Fatalf("want 3 weeks, got %d", len(weekly))
	}
	w0 := weekly[0]
	if w0.Open != 100 || w0.Close != 105 || w0.High != 106 || w0.Low != 99 || w0.Volume != 50 {
		t.Fatalf("unexpected first week %+v", w0)
	}
	if !w0.Time.Equal(daily[4].Time) {
		t.Fatalf("weekly time should be last daily bar, got %v", w0.Time)
	}
	if weekly[2].Volume != 20 || !weekly[2].Time.Equal(daily[11].Time) {
		t.Fatalf("partial week wrong: %+v", weekly[2])
	}
	if ResampleWeekly(nil) != nil {
		t.Fatalf("empty input should give nil")
	}
}

func TestWeeklyAlignerNeverLooksAhead(t *testing.T) {
	daily := weekdays(30)
	weekly := ResampleWeekly(daily)
	a := NewWeeklyAligner(daily, weekly)
	for i, d := range daily {
		w, ok := a.At(i)
		if i < 4 {
			if ok {
				t.Fatalf("day %d: no week has closed yet, got %d", i, w)
			}
			continue
		}
		if !ok {
			t.Fatalf("day %d should resolve", i)
		}
		if weekly[w].Time.After(d.Time) {
			t.Fatalf("day %d resolved a future week %v", i, weekly[w].Time)
		}
		if w+1 < len(weekly) && !weekly[w+1].Time.After(d.Time) {
			t.Fatalf("day %d did not resolve the latest closed week", i)
		}
	}
	// Friday closes its own week.
	if w, _ := a.At(4); w != 0 {
		t.Fatalf("friday should map to its week, got %d", w)
	}
	if w, _ := a.At(5); w != 0 {
		t.Fatalf("next monday should still see week 0, got %d", w)
	}
	if _, ok := a.At(len(daily)); ok {
		t.Fatalf("out of range should not resolve")
	}
}
