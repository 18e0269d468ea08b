package fx

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testRates() RateTable {
	return NewRateTable(map[string]decimal.Decimal{
		"IDR": decimal.NewFromInt(16000),
		"EUR": decimal.NewFromFloat(0.92),
		"MYR": decimal.NewFromFloat(4.7),
		"JPY": decimal.NewFromFloat(149.5),
	})
}

func TestNewRateTablePinsUSD(t *testing.T) {
	rates := NewRateTable(map[string]decimal.Decimal{
		"USD": decimal.NewFromFloat(1.02), // bogus upstream value
		"IDR": decimal.NewFromInt(16000),
	})
	if !rates["USD"].Equal(decimal.NewFromInt(1)) {
		t.Errorf("USD rate = %s, want exactly 1", rates["USD"])
	}
}

func TestToLocal(t *testing.T) {
	rates := testRates()

	got, err := ToLocal(decimal.NewFromInt(2), "IDR", rates)
	if err != nil {
		t.Fatalf("ToLocal: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(32000)) {
		t.Errorf("2 USD -> IDR = %s, want 32000", got)
	}
}

func TestToLocalUnknownCurrency(t *testing.T) {
	_, err := ToLocal(decimal.NewFromInt(10), "XXX", testRates())
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("err = %v, want ErrUnknownCurrency", err)
	}
}

func TestToUSDInvalidRate(t *testing.T) {
	rates := RateTable{"BAD": decimal.Zero}
	_, err := ToUSD(decimal.NewFromInt(10), "BAD", rates)
	if !errors.Is(err, ErrInvalidRate) {
		t.Errorf("err = %v, want ErrInvalidRate", err)
	}
}

func TestRoundTrip(t *testing.T) {
	rates := testRates()
	amounts := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromFloat(0.01),
		decimal.NewFromInt(2),
		decimal.NewFromFloat(13.37),
		decimal.NewFromInt(100000),
	}
	tolerance := decimal.New(1, -9)

	for currency := range rates {
		for _, a := range amounts {
			local, err := ToLocal(a, currency, rates)
			if err != nil {
				t.Fatalf("ToLocal(%s, %s): %v", a, currency, err)
			}
			back, err := ToUSD(local, currency, rates)
			if err != nil {
				t.Fatalf("ToUSD(%s, %s): %v", local, currency, err)
			}
			if back.Sub(a).Abs().GreaterThan(tolerance) {
				t.Errorf("round trip %s %s: got %s back", a, currency, back)
			}
		}
	}
}

func TestRoundMinimumUp(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"32000", "IDR", "32000"},  // already a multiple of 1000
		{"31500.5", "IDR", "32000"},
		{"1", "IDR", "1000"},
		{"4.2", "MYR", "5"},
		{"7", "SGD", "7"},
		{"1.84", "EUR", "2"},
		{"1.2", "GBP", "1.5"},
		{"3.1415", "JPY", "3.1415"}, // no rule, pass through
		{"0", "IDR", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.currency+"/"+tt.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			want := decimal.RequireFromString(tt.want)
			got := RoundMinimumUp(amount, tt.currency)
			if !got.Equal(want) {
				t.Errorf("RoundMinimumUp(%s, %s) = %s, want %s", tt.amount, tt.currency, got, want)
			}
		})
	}
}

func TestRoundMinimumUpMonotonic(t *testing.T) {
	thousand := decimal.NewFromInt(1000)
	for _, raw := range []string{"0", "0.001", "1", "999.99", "1000", "1000.01", "123456.78"} {
		x := decimal.RequireFromString(raw)
		got := RoundMinimumUp(x, "IDR")
		if got.LessThan(x) {
			t.Errorf("RoundMinimumUp(%s, IDR) = %s, below input", x, got)
		}
		if !got.Mod(thousand).IsZero() {
			t.Errorf("RoundMinimumUp(%s, IDR) = %s, not a multiple of 1000", x, got)
		}
	}
}
