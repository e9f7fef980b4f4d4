package repositories

import (
	"context"

	"github.com/planloop/trip_planner_app/internal/core/domain"
)

// ExchangeRateRepository persists the most recently fetched rate sheet.
type ExchangeRateRepository interface {
	SaveRateSheet(ctx context.Context, sheet domain.RateSheet) error
	// LoadRateSheet returns apperrors.ErrNotFound before the first refresh.
	LoadRateSheet(ctx context.Context) (*domain.RateSheet, error)
}
