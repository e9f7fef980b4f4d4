package dto

import "github.com/shopspring/decimal"

// ConvertRequest is bound from query parameters. Amount stays a
// string here and is parsed with decimal.NewFromString in the handler.
type ConvertRequest struct {
	From   string `form:"from" binding:"required,len=3,uppercase"`
	To     string `form:"to" binding:"required,len=3,uppercase"`
	Amount string `form:"amount" binding:"required"`
}

// ConvertResponse is the converted amount at the latest known rates.
type ConvertResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	FetchedAt string          `json:"fetchedAt"`
}
