package repository

import (
	"context"
	"errors"
	"time"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	"EliteScan/pkg/cache"
	applogger "EliteScan/pkg/logger"
)

// CachedMarket serves bars from a cache and fills it from the wrapped provider.
// Cache failures degrade to a direct fetch. Empty series are not cached.
type CachedMarket struct {
	next  domrepo.MarketData
	store cache.Store
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedMarket(next domrepo.MarketData, store cache.Store, ttl time.Duration, l *applogger.Logger) *CachedMarket {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedMarket{next: next, store: store, ttl: ttl, l: l}
}

func barsKey(symbol, period string, tf domrepo.Timeframe) string {
	return cache.Key("bars", string(tf), period, symbol)
}

func (m *CachedMarket) Fetch(ctx context.Context, symbol, period string, tf domrepo.Timeframe) ([]models.Bar, error) {
	key := barsKey(symbol, period, tf)

	bars, err := cache.GetJSON[[]models.Bar](ctx, m.store, key)
	switch {
	case err == nil:
		return bars, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		m.l.Warn("bar cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	bars, err = m.next.Fetch(ctx, symbol, period, tf)
	if err != nil || len(bars) == 0 {
		return bars, err
	}
	if err := cache.SetJSON(ctx, m.store, key, bars, m.ttl); err != nil {
		m.l.Warn("bar cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return bars, nil
}
