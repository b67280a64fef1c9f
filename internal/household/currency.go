package household

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// Currency is an ISO 4217 code the household can book receipts in
type Currency string

const (
	SEK Currency = "SEK"
	DKK Currency = "DKK"
	NOK Currency = "NOK"
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

// Currencies lists the supported currencies
var Currencies = []Currency{SEK, DKK, NOK, EUR, USD, GBP}

// ParseCurrency validates an ISO 4217 code and checks that it is supported.
// Codes are case-insensitive.
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("parsing currency %q: %w", code, err)
	}
	c := Currency(unit.String())
	switch c {
	case SEK, DKK, NOK, EUR, USD, GBP:
		return c, nil
	}
	return "", fmt.Errorf("unsupported currency %s", c)
}
