package services

import (
	"context"

	"github.com/planloop/trip_planner_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade refreshes and serves currency conversion.
type ExchangeRateSvcFacade interface {
	// Refresh fetches a fresh rate sheet from the configured provider
	// and persists it.
	Refresh(ctx context.Context) (*domain.RateSheet, error)

	// Convert converts amount between two ISO 4217 codes using the
	// latest stored sheet. apperrors.ErrNotFound before any refresh.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, *domain.RateSheet, error)
}
