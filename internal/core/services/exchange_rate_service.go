package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ratesPayload is the shape of the open.er-api.com latest endpoint.
type ratesPayload struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// exchangeRateService fetches rate sheets from an external provider
// and answers conversions from the latest persisted sheet.
type exchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepository
	ratesURL string
	base     string
	client   *http.Client
}

// NewExchangeRateService creates a new exchange rate service. A nil
// client falls back to a default with a request timeout.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepository, ratesURL, baseCurrency string, client *http.Client) portssvc.ExchangeRateSvcFacade {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &exchangeRateService{
		rateRepo: rateRepo,
		ratesURL: ratesURL,
		base:     strings.ToUpper(baseCurrency),
		client:   client,
	}
}

func (s *exchangeRateService) Refresh(ctx context.Context) (*domain.RateSheet, error) {
	url := strings.TrimSuffix(s.ratesURL, "/") + "/" + s.base

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates provider returned non-200 status: %s", resp.Status)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates payload: %w", err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return nil, fmt.Errorf("rates provider reported result '%s'", payload.Result)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates provider returned an empty rate sheet")
	}

	sheet := domain.RateSheet{
		Base:      s.base,
		FetchedAt: time.Now(),
		Rates:     payload.Rates,
	}
	if payload.BaseCode != "" {
		sheet.Base = strings.ToUpper(payload.BaseCode)
	}
	// The base always converts to itself.
	sheet.Rates[sheet.Base] = decimal.NewFromInt(1)

	if err := s.rateRepo.SaveRateSheet(ctx, sheet); err != nil {
		return nil, fmt.Errorf("failed to persist rate sheet: %w", err)
	}

	return &sheet, nil
}

func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, *domain.RateSheet, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if len(from) != 3 || len(to) != 3 {
		return decimal.Zero, nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	sheet, err := s.rateRepo.LoadRateSheet(ctx)
	if err != nil {
		return decimal.Zero, nil, err
	}

	fromRate, ok := sheet.Rates[from]
	if !ok {
		return decimal.Zero, nil, fmt.Errorf("%w: no rate for currency '%s'", apperrors.ErrValidation, from)
	}
	toRate, ok := sheet.Rates[to]
	if !ok {
		return decimal.Zero, nil, fmt.Errorf("%w: no rate for currency '%s'", apperrors.ErrValidation, to)
	}
	if fromRate.IsZero() {
		return decimal.Zero, nil, fmt.Errorf("%w: rate for currency '%s' is zero", apperrors.ErrValidation, from)
	}

	// Both rates are quoted against the sheet base, so cross through it.
	converted := amount.Mul(toRate).DivRound(fromRate, 8)
	return converted, sheet, nil
}
