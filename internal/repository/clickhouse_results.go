package repository

import (
	"context"
	"fmt"

	"EliteScan/internal/domain/models"
	pkgch "EliteScan/pkg/clickhouse"
)

// CHResultSink appends qualifying results to a ClickHouse table in one batch.
type CHResultSink struct {
	ch    *pkgch.Client
	table string
}

func NewCHResultSink(ch *pkgch.Client, table string) *CHResultSink {
	return &CHResultSink{ch: ch, table: table}
}

func (s *CHResultSink) Save(ctx context.Context, report *models.ScanReport) error {
	if report == nil || len(report.Results) == 0 {
		return nil
	}
	tx, err := s.ch.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s.%s
        (scan_id, scanned_at, symbol, asset_class, setup, timeframe, win_rate, expectancy,
         payoff_ratio, trades, stop_loss, take_profit, optimized, entry, stop, target, as_of)`,
		s.ch.Database(), s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range report.Results {
		var optimized uint8
		if r.Optimized {
			optimized = 1
		}
		if _, err := stmt.ExecContext(ctx,
			report.ID, report.FinishedAt, r.Symbol, r.AssetClass, r.Setup, r.Timeframe,
			r.WinRate, r.Expectancy, r.PayoffRatio, uint32(r.Trades), r.StopLoss, r.TakeProfit,
			optimized, r.Entry, r.Stop, r.Target, r.AsOf,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append result %s: %w", r.Symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (s *CHResultSink) Close() error { return nil }
