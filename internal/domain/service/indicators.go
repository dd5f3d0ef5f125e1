package service

import (
	"EliteScan/internal/domain/models"
	"EliteScan/pkg/config"
)

// IndicatorEngine computes indicator series aligned to the given bars.
// Values inside each indicator's warm-up window are NaN.
type IndicatorEngine interface {
	Compute(bars []models.Bar, p config.IndicatorConfig) (models.IndicatorSet, error)
}
