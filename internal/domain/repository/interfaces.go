package repository

import (
	"context"

	"EliteScan/internal/domain/models"
)

// MarketData retrieves historical bars. Period is a lookback such as "5y" or "180d".
// An unknown or delisted symbol may yield an empty slice with a nil error.
type MarketData interface {
	Fetch(ctx context.Context, symbol, period string, tf Timeframe) ([]models.Bar, error)
}

// ResultSink persists or publishes a finished scan.
type ResultSink interface {
	Save(ctx context.Context, report *models.ScanReport) error
	Close() error
}

// UniverseSource loads the instrument universe.
type UniverseSource interface {
	Load(ctx context.Context) (models.Universe, error)
}

type Metrics interface {
	RecordInstrument(status string)
	RecordSignals(setup string, n int)
	RecordResult(setup string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
