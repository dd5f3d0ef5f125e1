package models

import (
	"sort"

	"github.com/samber/lo"
)

// AssetClass groups instruments sharing default stop/target parameters.
type AssetClass struct {
	Name       string   `yaml:"name" json:"name"`
	StopLoss   float64  `yaml:"stop_loss" json:"stop_loss"`
	TakeProfit float64  `yaml:"take_profit" json:"take_profit"`
	Symbols    []string `yaml:"symbols" json:"symbols"`
}

// Instrument is one scannable symbol with its class parameters.
type Instrument struct {
	Symbol     string
	Class      string
	StopLoss   float64
	TakeProfit float64
}

// Universe is a deduplicated set of instruments. A symbol listed in several
// classes belongs to the first class that lists it.
type Universe struct {
	instruments map[string]Instrument
}

func NewUniverse(classes []AssetClass) Universe {
	u := Universe{instruments: make(map[string]Instrument)}
	for _, c := range classes {
		for _, s := range lo.Uniq(c.Symbols) {
			if s == "" {
				continue
			}
			if _, ok := u.instruments[s]; ok {
				continue
			}
			u.instruments[s] = Instrument{Symbol: s, Class: c.Name, StopLoss: c.StopLoss, TakeProfit: c.TakeProfit}
		}
	}
	return u
}

func (u Universe) Len() int { return len(u.instruments) }

func (u Universe) Lookup(symbol string) (Instrument, bool) {
	in, ok := u.instruments[symbol]
	return in, ok
}

// Instruments returns all instruments sorted by symbol.
func (u Universe) Instruments() []Instrument {
	out := lo.Values(u.instruments)
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Restrict keeps only the given symbols; unknown symbols are ignored.
func (u Universe) Restrict(symbols []string) Universe {
	out := Universe{instruments: make(map[string]Instrument)}
	for _, s := range symbols {
		if in, ok := u.instruments[s]; ok {
			out.instruments[s] = in
		}
	}
	return out
}
