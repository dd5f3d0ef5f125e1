package middleware

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	applogger "EliteScan/pkg/logger"
)

// ThrottledMarket sits between the scanner and a market data provider.
// It shares one token bucket across workers and records fetch latency. A failed fetch
// is final unless retries are configured with WithRetries.
type ThrottledMarket struct {
	next       domrepo.MarketData
	limiter    *rate.Limiter
	metrics    domrepo.Metrics
	maxRetries int
	backoff    time.Duration
	l          *applogger.Logger
}

type MarketOption func(*ThrottledMarket)

// WithRate sets requests per second and burst. A non-positive rps disables throttling.
func WithRate(rps float64, burst int) MarketOption {
	return func(m *ThrottledMarket) {
		if rps <= 0 {
			m.limiter = nil
			return
		}
		m.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetries sets the retry count and the base backoff, doubled per attempt.
func WithRetries(n int, backoff time.Duration) MarketOption {
	return func(m *ThrottledMarket) {
		if n >= 0 {
			m.maxRetries = n
		}
		if backoff > 0 {
			m.backoff = backoff
		}
	}
}

func WithMetrics(metrics domrepo.Metrics) MarketOption {
	return func(m *ThrottledMarket) {
		m.metrics = metrics
	}
}

func WithLogger(l *applogger.Logger) MarketOption {
	return func(m *ThrottledMarket) {
		m.l = l
	}
}

func NewThrottledMarket(next domrepo.MarketData, opts ...MarketOption) *ThrottledMarket {
	m := &ThrottledMarket{
		next:       next,
		backoff:    200 * time.Millisecond,
		l:          applogger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ThrottledMarket) Fetch(ctx context.Context, symbol, period string, tf domrepo.Timeframe) ([]models.Bar, error) {
	start := time.Now()
	var (
		bars []models.Bar
		err  error
	)
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if m.limiter != nil {
			if werr := m.limiter.Wait(ctx); werr != nil {
				return nil, werr
			}
		}

		bars, err = m.next.Fetch(ctx, symbol, period, tf)
		if err == nil || !retryable(ctx, err) || attempt == m.maxRetries {
			break
		}

		wait := m.backoff << attempt
		m.l.Warn("market fetch retry",
			applogger.Symbol(symbol),
			applogger.Int("attempt", attempt+1),
			applogger.Duration("backoff_ms", wait),
			applogger.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	if m.metrics != nil {
		m.metrics.RecordLatency("provider_"+string(tf), time.Since(start).Seconds())
		if err != nil {
			m.metrics.RecordError("provider")
		}
	}
	return bars, err
}

// retryable excludes caller cancellation and missing data.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, models.ErrDataUnavailable)
}
