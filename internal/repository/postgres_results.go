package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"EliteScan/internal/domain/models"
)

// ScanRow is the persisted scan header.
type ScanRow struct {
	ID         string `gorm:"primaryKey;size:36"`
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Completed  int
	Skipped    int
	Failed     int
	Cancelled  bool
	Results    []ResultRow `gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE"`
}

func (ScanRow) TableName() string { return "scans" }

// ResultRow is one persisted qualifying setup.
type ResultRow struct {
	ID          uint   `gorm:"primaryKey"`
	ScanID      string `gorm:"size:36;index"`
	Symbol      string `gorm:"size:32;index"`
	AssetClass  string `gorm:"size:32"`
	Setup       string `gorm:"size:64"`
	Timeframe   string `gorm:"size:8"`
	WinRate     float64
	Expectancy  float64
	PayoffRatio *float64
	Trades      int
	StopLoss    float64
	TakeProfit  float64
	Optimized   bool
	Entry       float64
	Stop        float64
	Target      float64
	AsOf        time.Time
}

func (ResultRow) TableName() string { return "scan_results" }

// PostgresResultSink stores each scan and its results in one transaction.
type PostgresResultSink struct {
	db *gorm.DB
}

// OpenPostgres connects and migrates the result tables.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := db.AutoMigrate(&ScanRow{}, &ResultRow{}); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return db, nil
}

func NewPostgresResultSink(db *gorm.DB) *PostgresResultSink {
	return &PostgresResultSink{db: db}
}

func toScanRow(report *models.ScanReport) ScanRow {
	row := ScanRow{
		ID:         report.ID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Total:      report.Total,
		Completed:  report.Completed,
		Skipped:    len(report.Skipped),
		Failed:     len(report.Failed),
		Cancelled:  report.Cancelled,
	}
	for _, r := range report.Results {
		row.Results = append(row.Results, ResultRow{
			ScanID:      report.ID,
			Symbol:      r.Symbol,
			AssetClass:  r.AssetClass,
			Setup:       r.Setup,
			Timeframe:   r.Timeframe,
			WinRate:     r.WinRate,
			Expectancy:  r.Expectancy,
			PayoffRatio: r.PayoffRatio,
			Trades:      r.Trades,
			StopLoss:    r.StopLoss,
			TakeProfit:  r.TakeProfit,
			Optimized:   r.Optimized,
			Entry:       r.Entry,
			Stop:        r.Stop,
			Target:      r.Target,
			AsOf:        r.AsOf,
		})
	}
	return row
}

func (s *PostgresResultSink) Save(ctx context.Context, report *models.ScanReport) error {
	if report == nil {
		return nil
	}
	row := toScanRow(report)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert scan %s: %w", report.ID, err)
		}
		return nil
	})
}

func (s *PostgresResultSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
