package models

import (
	"sort"
	"time"
)

// ResultRecord is one qualifying setup ready for presentation.
type ResultRecord struct {
	Symbol      string    `json:"symbol"`
	AssetClass  string    `json:"asset_class"`
	Setup       string    `json:"setup"`
	Timeframe   string    `json:"timeframe"`
	WinRate     float64   `json:"win_rate"`
	Expectancy  float64   `json:"expectancy"`
	PayoffRatio *float64  `json:"payoff_ratio,omitempty"`
	Trades      int       `json:"trades"`
	StopLoss    float64   `json:"stop_loss"`
	TakeProfit  float64   `json:"take_profit"`
	Optimized   bool      `json:"optimized"`
	Entry       float64   `json:"entry"`
	Stop        float64   `json:"stop"`
	Target      float64   `json:"target"`
	AsOf        time.Time `json:"as_of"`
}

type OutcomeStatus string

const (
	StatusOK      OutcomeStatus = "ok"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// InstrumentOutcome is the per-instrument result of a scan.
type InstrumentOutcome struct {
	Symbol  string         `json:"symbol"`
	Status  OutcomeStatus  `json:"status"`
	Reason  string         `json:"reason,omitempty"`
	Results []ResultRecord `json:"results,omitempty"`
}

// Progress is emitted after each instrument completes.
type Progress struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Symbol    string `json:"symbol"`
}

// Fraction returns completed/total in [0,1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// ScanReport aggregates a full universe scan.
type ScanReport struct {
	ID         string              `json:"id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Total      int                 `json:"total"`
	Completed  int                 `json:"completed"`
	Results    []ResultRecord      `json:"results"`
	Skipped    []InstrumentOutcome `json:"skipped"`
	Failed     []InstrumentOutcome `json:"failed"`
	Cancelled  bool                `json:"cancelled"`
}

// NoMatches reports a finished scan that found nothing qualifying.
func (r *ScanReport) NoMatches() bool { return len(r.Results) == 0 }

// Add folds one instrument outcome into the report.
func (r *ScanReport) Add(o InstrumentOutcome) {
	r.Completed++
	switch o.Status {
	case StatusSkipped:
		r.Skipped = append(r.Skipped, o)
	case StatusFailed:
		r.Failed = append(r.Failed, o)
	default:
		r.Results = append(r.Results, o.Results...)
	}
}

// Sort orders results by descending expectancy, then symbol, and outcomes by symbol.
func (r *ScanReport) Sort() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		if r.Results[i].Expectancy != r.Results[j].Expectancy {
			return r.Results[i].Expectancy > r.Results[j].Expectancy
		}
		if r.Results[i].Symbol != r.Results[j].Symbol {
			return r.Results[i].Symbol < r.Results[j].Symbol
		}
		return r.Results[i].Setup < r.Results[j].Setup
	})
	bySymbol := func(xs []InstrumentOutcome) {
		sort.Slice(xs, func(i, j int) bool { return xs[i].Symbol < xs[j].Symbol })
	}
	bySymbol(r.Skipped)
	bySymbol(r.Failed)
}
