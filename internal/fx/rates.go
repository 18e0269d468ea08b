package fx

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the platform accounting currency. All balances and
// settings are stored in it; RateTable entries are relative to it.
const BaseCurrency = "USD"

var (
	// ErrUnknownCurrency is returned when a conversion targets a currency
	// absent from the table. Conversions never fall back to a rate of 1:
	// guessing a rate on a money path is worse than failing the operation.
	ErrUnknownCurrency = errors.New("fx: unknown currency")

	// ErrInvalidRate is returned when a stored rate is zero or negative.
	ErrInvalidRate = errors.New("fx: invalid rate")
)

// RateTable maps currency code -> units per 1 USD. Treated as an immutable
// snapshot for the lifetime of one operation; callers never mutate it.
type RateTable map[string]decimal.Decimal

// NewRateTable builds a table from raw rates, pinning the USD entry to
// exactly 1 regardless of input.
func NewRateTable(raw map[string]decimal.Decimal) RateTable {
	t := make(RateTable, len(raw)+1)
	for code, rate := range raw {
		t[code] = rate
	}
	t[BaseCurrency] = decimal.NewFromInt(1)
	return t
}

// Rate returns the validated rate for currency.
func (t RateTable) Rate(currency string) (decimal.Decimal, error) {
	rate, ok := t[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s rate %s", ErrInvalidRate, currency, rate)
	}
	return rate, nil
}

// ToLocal converts a USD amount into the target currency.
func ToLocal(amountUSD decimal.Decimal, currency string, rates RateTable) (decimal.Decimal, error) {
	rate, err := rates.Rate(currency)
	if err != nil {
		return decimal.Zero, err
	}
	return amountUSD.Mul(rate), nil
}

// ToUSD converts an amount in the given currency back into USD.
func ToUSD(amountLocal decimal.Decimal, currency string, rates RateTable) (decimal.Decimal, error) {
	rate, err := rates.Rate(currency)
	if err != nil {
		return decimal.Zero, err
	}
	return amountLocal.Div(rate), nil
}
