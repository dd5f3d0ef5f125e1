package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"EliteScan/internal/domain/models"
)

// Row is a presentation-ready result: percentages rounded, exchange suffix removed.
type Row struct {
	Symbol        string   `json:"symbol"`
	AssetClass    string   `json:"asset_class"`
	Setup         string   `json:"setup"`
	Timeframe     string   `json:"timeframe"`
	WinRatePct    float64  `json:"win_rate_pct"`
	ExpectancyPct float64  `json:"expectancy_pct"`
	PayoffRatio   *float64 `json:"payoff_ratio,omitempty"`
	Trades        int      `json:"trades"`
	StopLossPct   float64  `json:"stop_loss_pct"`
	TakeProfitPct float64  `json:"take_profit_pct"`
	Optimized     bool     `json:"optimized"`
	Entry         float64  `json:"entry"`
	Stop          float64  `json:"stop"`
	Target        float64  `json:"target"`
}

// Formatter turns result records into rows.
type Formatter struct {
	suffix string
}

func NewFormatter(symbolSuffix string) *Formatter {
	return &Formatter{suffix: symbolSuffix}
}

// DisplaySymbol strips the configured exchange suffix.
func (f *Formatter) DisplaySymbol(symbol string) string {
	if f.suffix == "" {
		return symbol
	}
	return strings.TrimSuffix(symbol, f.suffix)
}

// Qualify upper-cases a user supplied symbol and appends the exchange suffix when missing.
func (f *Formatter) Qualify(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if f.suffix == "" || symbol == "" || strings.HasSuffix(symbol, strings.ToUpper(f.suffix)) {
		return symbol
	}
	return symbol + f.suffix
}

func (f *Formatter) Row(r models.ResultRecord) Row {
	row := Row{
		Symbol:        f.DisplaySymbol(r.Symbol),
		AssetClass:    r.AssetClass,
		Setup:         r.Setup,
		Timeframe:     r.Timeframe,
		WinRatePct:    Percent(r.WinRate, 1),
		ExpectancyPct: Percent(r.Expectancy, 2),
		Trades:        r.Trades,
		StopLossPct:   Percent(r.StopLoss, 1),
		TakeProfitPct: Percent(r.TakeProfit, 1),
		Optimized:     r.Optimized,
		Entry:         Round(r.Entry, 2),
		Stop:          Round(r.Stop, 2),
		Target:        Round(r.Target, 2),
	}
	if r.PayoffRatio != nil {
		p := Round(*r.PayoffRatio, 2)
		row.PayoffRatio = &p
	}
	return row
}

// Rows keeps the input order, which is already ranked by expectancy.
func (f *Formatter) Rows(records []models.ResultRecord) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		out = append(out, f.Row(r))
	}
	return out
}

// Percent converts a fraction to a percentage rounded half away from zero.
func Percent(fraction float64, places int32) float64 {
	v, _ := decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).Round(places).Float64()
	return v
}

func Round(v float64, places int32) float64 {
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}
