package blob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
)

const rateSheetKey = "rates/latest.json"

// ExchangeRateRepository stores the latest rate sheet as one JSON blob.
type ExchangeRateRepository struct {
	store portsrepo.Storage
}

var _ portsrepo.ExchangeRateRepository = (*ExchangeRateRepository)(nil)

// NewExchangeRateRepository creates a blob-backed rate repository.
func NewExchangeRateRepository(store portsrepo.Storage) *ExchangeRateRepository {
	return &ExchangeRateRepository{store: store}
}

func (r *ExchangeRateRepository) SaveRateSheet(ctx context.Context, sheet domain.RateSheet) error {
	content, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("failed to marshal rate sheet: %w", err)
	}
	if err := r.store.Write(ctx, rateSheetKey, content); err != nil {
		return fmt.Errorf("failed to save rate sheet: %w", err)
	}
	return nil
}

func (r *ExchangeRateRepository) LoadRateSheet(ctx context.Context) (*domain.RateSheet, error) {
	content, err := r.store.Read(ctx, rateSheetKey)
	if err != nil {
		return nil, err
	}
	var sheet domain.RateSheet
	if err := json.Unmarshal(content, &sheet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate sheet: %w", err)
	}
	return &sheet, nil
}
