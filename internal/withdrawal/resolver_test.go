package withdrawal

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/models"
)

func testRates() fx.RateTable {
	return fx.NewRateTable(map[string]decimal.Decimal{
		"IDR": decimal.NewFromInt(16000),
		"EUR": decimal.NewFromFloat(0.92),
	})
}

func settings(min, max string, count, days int) models.WithdrawalSettings {
	return models.WithdrawalSettings{
		MinWithdrawal: decimal.RequireFromString(min),
		MaxWithdrawal: decimal.RequireFromString(max),
		LimitCount:    count,
		LimitDays:     days,
	}
}

func TestResolveIDRScenario(t *testing.T) {
	// balance $100, min $2, unlimited max, IDR at 16000
	limits, err := Resolve(decimal.NewFromInt(100), settings("2", "0", 0, 1), "IDR", testRates())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !limits.MinLocal.Equal(decimal.NewFromInt(32000)) {
		t.Errorf("min = %s IDR, want 32000", limits.MinLocal)
	}
	if !limits.MaxLocal.Equal(decimal.NewFromInt(1600000)) {
		t.Errorf("max = %s IDR, want 1600000", limits.MaxLocal)
	}
	if !limits.MaxUSD.Equal(decimal.NewFromInt(100)) {
		t.Errorf("max USD = %s, want 100 (unlimited settings clamp to balance)", limits.MaxUSD)
	}
}

func TestResolveMaxClampsToSettings(t *testing.T) {
	// configured max $5 beats the $100 balance
	limits, err := Resolve(decimal.NewFromInt(100), settings("2", "5", 0, 1), "USD", testRates())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !limits.MaxUSD.Equal(decimal.NewFromInt(5)) {
		t.Errorf("effective max = %s, want 5", limits.MaxUSD)
	}
}

func TestResolveMaxClampsToBalance(t *testing.T) {
	limits, err := Resolve(decimal.NewFromInt(3), settings("2", "5", 0, 1), "USD", testRates())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !limits.MaxUSD.Equal(decimal.NewFromInt(3)) {
		t.Errorf("effective max = %s, want 3", limits.MaxUSD)
	}
}

func TestResolveBoundOrdering(t *testing.T) {
	// Whenever the range is reachable the displayed bounds stay ordered,
	// display rounding included.
	balances := []string{"2", "2.04", "5", "100", "12345.67"}
	currencies := []string{"USD", "IDR", "EUR"}

	for _, b := range balances {
		for _, c := range currencies {
			limits, err := Resolve(decimal.RequireFromString(b), settings("2", "0", 0, 1), c, testRates())
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", b, c, err)
			}
			if limits.MaxUSD.GreaterThanOrEqual(limits.MinUSD) && limits.MinLocal.GreaterThan(limits.MaxLocal) {
				t.Errorf("balance %s %s: min %s > max %s", b, c, limits.MinLocal, limits.MaxLocal)
			}
		}
	}
}

func TestResolveBelowMinimumStillReturnsBounds(t *testing.T) {
	// Balance under the configured minimum: unreachable bounds come back,
	// rejection is submit-time business.
	limits, err := Resolve(decimal.NewFromInt(1), settings("2", "0", 0, 1), "IDR", testRates())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !limits.MinLocal.GreaterThan(limits.MaxLocal) {
		t.Errorf("expected unreachable bounds, got min %s max %s", limits.MinLocal, limits.MaxLocal)
	}
}

func TestResolveUnknownCurrency(t *testing.T) {
	_, err := Resolve(decimal.NewFromInt(100), settings("2", "0", 0, 1), "XXX", testRates())
	if !errors.Is(err, fx.ErrUnknownCurrency) {
		t.Errorf("err = %v, want ErrUnknownCurrency", err)
	}
}
