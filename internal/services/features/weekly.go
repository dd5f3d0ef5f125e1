package features

import "EliteScan/internal/domain/models"

// ResampleWeekly downsamples daily bars into ISO calendar weeks. Each weekly bar
// carries the time of the last daily bar of its week, so it is only "known" once that
// day has closed.
func ResampleWeekly(daily []models.Bar) []models.Bar {
	if len(daily) == 0 {
		return nil
	}
	out := make([]models.Bar, 0, len(daily)/5+1)
	var cur models.Bar
	curYear, curWeek := -1, -1
	for _, b := range daily {
		y, w := b.Time.ISOWeek()
		if y != curYear || w != curWeek {
			if curYear != -1 {
				out = append(out, cur)
			}
			cur = b
			curYear, curWeek = y, w
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
		cur.Time = b.Time
	}
	return append(out, cur)
}
