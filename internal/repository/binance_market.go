package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	applogger "EliteScan/pkg/logger"
	xutil "EliteScan/pkg/util"
)

const binanceKlineLimit = 1500

// BinanceMarket implements MarketData over USDⓈ-M futures klines.
type BinanceMarket struct {
	client *futures.Client
	now    func() time.Time
	l      *applogger.Logger
}

func NewBinanceMarket(apiKey, secretKey string, timeout time.Duration, l *applogger.Logger) *BinanceMarket {
	client := futures.NewClient(apiKey, secretKey)
	client.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return NewBinanceMarketWithClient(client, l)
}

func NewBinanceMarketWithClient(client *futures.Client, l *applogger.Logger) *BinanceMarket {
	if l == nil {
		l = applogger.Nop()
	}
	return &BinanceMarket{client: client, now: time.Now, l: l}
}

func binanceInterval(tf domrepo.Timeframe) string {
	if tf == domrepo.TF1wk {
		return "1w"
	}
	return "1d"
}

// Fetch pages forward from the period start until a short page arrives.
func (m *BinanceMarket) Fetch(ctx context.Context, symbol, period string, tf domrepo.Timeframe) ([]models.Bar, error) {
	start, err := xutil.PeriodStart(m.now(), period)
	if err != nil {
		return nil, err
	}
	end := m.now().UnixMilli()
	cursor := start.UnixMilli()

	var bars []models.Bar
	for cursor < end {
		klines, err := m.client.NewKlinesService().
			Symbol(symbol).
			Interval(binanceInterval(tf)).
			StartTime(cursor).
			EndTime(end).
			Limit(binanceKlineLimit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		for _, k := range klines {
			b, err := klineToBar(k)
			if err != nil {
				return nil, fmt.Errorf("binance kline %s: %w", symbol, err)
			}
			if n := len(bars); n > 0 && !b.Time.After(bars[n-1].Time) {
				continue
			}
			bars = append(bars, b)
		}
		if len(klines) < binanceKlineLimit {
			break
		}
		cursor = klines[len(klines)-1].CloseTime + 1
	}

	m.l.Debug("binance klines fetched",
		applogger.Symbol(symbol),
		applogger.String("tf", string(tf)),
		applogger.Int("bars", len(bars)),
	)
	return bars, nil
}

func klineToBar(k *futures.Kline) (models.Bar, error) {
	var (
		b   = models.Bar{Time: time.UnixMilli(k.OpenTime).UTC()}
		err error
	)
	parse := func(s string, dst *float64) {
		if err != nil {
			return
		}
		*dst, err = strconv.ParseFloat(s, 64)
	}
	parse(k.Open, &b.Open)
	parse(k.High, &b.High)
	parse(k.Low, &b.Low)
	parse(k.Close, &b.Close)
	parse(k.Volume, &b.Volume)
	return b, err
}
