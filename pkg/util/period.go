package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParsePeriod parses a lookback such as "5y", "6mo", "180d" or "8wk" into years,
// months and days. "max" returns ok=false with a nil error, meaning no lower bound.
func ParsePeriod(p string) (years, months, days int, bounded bool, err error) {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" || p == "max" {
		return 0, 0, 0, false, nil
	}

	var unit string
	for _, suffix := range []string{"mo", "wk", "y", "d"} {
		if strings.HasSuffix(p, suffix) {
			unit = suffix
			break
		}
	}
	if unit == "" {
		return 0, 0, 0, false, fmt.Errorf("invalid period %q", p)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(p, unit))
	if err != nil || n <= 0 {
		return 0, 0, 0, false, fmt.Errorf("invalid period %q", p)
	}

	switch unit {
	case "y":
		return n, 0, 0, true, nil
	case "mo":
		return 0, n, 0, true, nil
	case "wk":
		return 0, 0, 7 * n, true, nil
	default:
		return 0, 0, n, true, nil
	}
}

// Epoch is the start of an unbounded period; providers reject negative timestamps.
var Epoch = time.Unix(0, 0).UTC()

// PeriodStart returns now minus the period, never earlier than Epoch.
func PeriodStart(now time.Time, period string) (time.Time, error) {
	y, m, d, bounded, err := ParsePeriod(period)
	if err != nil {
		return time.Time{}, err
	}
	if !bounded {
		return Epoch, nil
	}
	if start := now.AddDate(-y, -m, -d); start.After(Epoch) {
		return start, nil
	}
	return Epoch, nil
}
