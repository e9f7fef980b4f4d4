// Package iso provides a static ISO 3166 / ISO 4217 lookup used to
// derive country codes and currencies when a command supplies only a
// partial country description.
package iso

import "strings"

// Country is one row of the static lookup table.
type Country struct {
	Name     string
	Alpha2   string
	Currency string
}

var countries = []Country{
	{"Argentina", "AR", "ARS"},
	{"Australia", "AU", "AUD"},
	{"Austria", "AT", "EUR"},
	{"Belgium", "BE", "EUR"},
	{"Brazil", "BR", "BRL"},
	{"Canada", "CA", "CAD"},
	{"Chile", "CL", "CLP"},
	{"China", "CN", "CNY"},
	{"Colombia", "CO", "COP"},
	{"Croatia", "HR", "EUR"},
	{"Czechia", "CZ", "CZK"},
	{"Denmark", "DK", "DKK"},
	{"Egypt", "EG", "EGP"},
	{"Finland", "FI", "EUR"},
	{"France", "FR", "EUR"},
	{"Germany", "DE", "EUR"},
	{"Greece", "GR", "EUR"},
	{"Hungary", "HU", "HUF"},
	{"Iceland", "IS", "ISK"},
	{"India", "IN", "INR"},
	{"Indonesia", "ID", "IDR"},
	{"Ireland", "IE", "EUR"},
	{"Israel", "IL", "ILS"},
	{"Italy", "IT", "EUR"},
	{"Japan", "JP", "JPY"},
	{"Malaysia", "MY", "MYR"},
	{"Mexico", "MX", "MXN"},
	{"Morocco", "MA", "MAD"},
	{"Netherlands", "NL", "EUR"},
	{"New Zealand", "NZ", "NZD"},
	{"Norway", "NO", "NOK"},
	{"Peru", "PE", "PEN"},
	{"Philippines", "PH", "PHP"},
	{"Poland", "PL", "PLN"},
	{"Portugal", "PT", "EUR"},
	{"Singapore", "SG", "SGD"},
	{"South Africa", "ZA", "ZAR"},
	{"South Korea", "KR", "KRW"},
	{"Spain", "ES", "EUR"},
	{"Sweden", "SE", "SEK"},
	{"Switzerland", "CH", "CHF"},
	{"Thailand", "TH", "THB"},
	{"Turkey", "TR", "TRY"},
	{"United Arab Emirates", "AE", "AED"},
	{"United Kingdom", "GB", "GBP"},
	{"United States", "US", "USD"},
	{"Vietnam", "VN", "VND"},
}

// LookupByName finds a country by its English name, case-insensitively.
func LookupByName(name string) (Country, bool) {
	for _, c := range countries {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Country{}, false
}

// LookupByAlpha2 finds a country by its two-letter ISO 3166-1 code.
func LookupByAlpha2(code string) (Country, bool) {
	code = strings.ToUpper(code)
	for _, c := range countries {
		if c.Alpha2 == code {
			return c, true
		}
	}
	return Country{}, false
}
