package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSheet holds one refresh's worth of exchange rates, all quoted
// against the base currency.
type RateSheet struct {
	Base      string                     `json:"base"`
	FetchedAt time.Time                  `json:"fetchedAt"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}
