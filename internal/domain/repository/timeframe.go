package repository

// Timeframe represents bar resolution.
type Timeframe string

const (
	TF1d  Timeframe = "1d"
	TF1wk Timeframe = "1wk"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF1d, TF1wk:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1d }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	switch s {
	case "1w", "1wk", "weekly", "w":
		return TF1wk
	case "1d", "daily", "d":
		return TF1d
	default:
		return DefaultTimeframe()
	}
}
