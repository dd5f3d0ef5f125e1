package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	pkghttp "EliteScan/pkg/http"
	applogger "EliteScan/pkg/logger"
	xutil "EliteScan/pkg/util"
)

const chartUserAgent = "Mozilla/5.0 (compatible; EliteScan/1.0)"

// chartResponse mirrors the v8 chart JSON. Missing quote values arrive as null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ChartMarket implements MarketData over the public chart JSON API.
type ChartMarket struct {
	client  *pkghttp.Client
	baseURL string
	now     func() time.Time
	l       *applogger.Logger
}

func NewChartMarket(client *pkghttp.Client, baseURL string, l *applogger.Logger) *ChartMarket {
	if l == nil {
		l = applogger.Nop()
	}
	return &ChartMarket{client: client, baseURL: baseURL, now: time.Now, l: l}
}

func (m *ChartMarket) Fetch(ctx context.Context, symbol, period string, tf domrepo.Timeframe) ([]models.Bar, error) {
	start, err := xutil.PeriodStart(m.now(), period)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("interval", string(tf))
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(m.now().Unix(), 10))
	params.Set("includePrePost", "false")

	var resp chartResponse
	err = m.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         fmt.Sprintf("%s/v8/finance/chart/%s", m.baseURL, url.PathEscape(symbol)),
		Headers:     map[string]string{"User-Agent": chartUserAgent, "Accept": "application/json"},
		QueryParams: params,
	}, &resp)
	if err != nil {
		var se *pkghttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			m.l.Debug("chart symbol not found", applogger.Symbol(symbol))
			return nil, nil
		}
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if e := resp.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, nil
		}
		return nil, fmt.Errorf("chart %s: %s: %s", symbol, e.Code, e.Description)
	}

	bars := decodeChart(resp)
	m.l.Debug("chart fetched",
		applogger.Symbol(symbol),
		applogger.String("tf", string(tf)),
		applogger.Int("bars", len(bars)),
	)
	return bars, nil
}

// decodeChart drops rows with any missing OHLC value and keeps time strictly increasing.
func decodeChart(resp chartResponse) []models.Bar {
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil
	}
	r := resp.Chart.Result[0]
	q := r.Indicators.Quote[0]

	at := func(xs []*float64, i int) (float64, bool) {
		if i >= len(xs) || xs[i] == nil || math.IsNaN(*xs[i]) {
			return 0, false
		}
		return *xs[i], true
	}

	bars := make([]models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, ok1 := at(q.Open, i)
		h, ok2 := at(q.High, i)
		lo, ok3 := at(q.Low, i)
		c, ok4 := at(q.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		v, _ := at(q.Volume, i)
		t := time.Unix(ts, 0).UTC()
		if n := len(bars); n > 0 && !t.After(bars[n-1].Time) {
			continue
		}
		bars = append(bars, models.Bar{Time: t, Open: o, High: h, Low: lo, Close: c, Volume: v})
	}
	return bars
}
