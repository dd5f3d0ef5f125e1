package repository

import (
	"context"
	"fmt"
	"time"

	"EliteScan/internal/domain/models"
	domrepo "EliteScan/internal/domain/repository"
	pkgch "EliteScan/pkg/clickhouse"
	applogger "EliteScan/pkg/logger"
	xutil "EliteScan/pkg/util"
)

// CHBarStore implements MarketData over a ClickHouse OHLCV table.
type CHBarStore struct {
	ch    *pkgch.Client
	table string
	now   func() time.Time
	l     *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client, table string, l *applogger.Logger) *CHBarStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHBarStore{ch: ch, table: table, now: time.Now, l: l}
}

func (s *CHBarStore) Fetch(ctx context.Context, symbol, period string, tf domrepo.Timeframe) ([]models.Bar, error) {
	start := time.Now()
	from, err := xutil.PeriodStart(s.now(), period)
	if err != nil {
		return nil, err
	}

	const qtpl = `
        SELECT ts, open, high, low, close, volume
        FROM %s.%s FINAL
        WHERE symbol = ? AND timeframe = ? AND ts >= ?
        ORDER BY ts ASC
    `
	q := fmt.Sprintf(qtpl, s.ch.Database(), s.table)
	rows, err := s.ch.DB().QueryContext(ctx, q, symbol, string(tf), from)
	if err != nil {
		s.l.Error("clickhouse bars query error",
			applogger.String("table", s.table),
			applogger.Symbol(symbol),
			applogger.String("tf", string(tf)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 1024)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = b.Time.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("clickhouse bars ok",
		applogger.String("table", s.table),
		applogger.Symbol(symbol),
		applogger.String("tf", string(tf)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
