package withdrawal

import (
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/models"
)

// Limits are the effective withdrawal bounds for one payment method,
// resolved from the global settings and the member's live balance.
// MinLocal carries the display rounding; MinUSD/MaxUSD stay exact and are
// what submit-time validation enforces server-side.
type Limits struct {
	Currency string          `json:"currency"`
	MinUSD   decimal.Decimal `json:"min_usd"`
	MaxUSD   decimal.Decimal `json:"max_usd"`
	MinLocal decimal.Decimal `json:"min_local"`
	MaxLocal decimal.Decimal `json:"max_local"`
}

// Resolve combines settings, balance and the method currency into effective
// bounds. It never rejects: when the balance sits below the configured
// minimum the (unreachable) bounds are still returned and submit-time
// validation does the final rejection.
func Resolve(balanceUSD decimal.Decimal, settings models.WithdrawalSettings, currency string, rates fx.RateTable) (Limits, error) {
	effectiveMaxUSD := balanceUSD
	if settings.MaxWithdrawal.IsPositive() && settings.MaxWithdrawal.LessThan(balanceUSD) {
		effectiveMaxUSD = settings.MaxWithdrawal
	}

	minLocal, err := fx.ToLocal(settings.MinWithdrawal, currency, rates)
	if err != nil {
		return Limits{}, err
	}
	maxLocal, err := fx.ToLocal(effectiveMaxUSD, currency, rates)
	if err != nil {
		return Limits{}, err
	}

	minDisplayed := fx.RoundMinimumUp(minLocal, currency)
	// Display rounding can overshoot a tight maximum; clamp so the
	// advertised bounds stay ordered whenever the range is reachable.
	if effectiveMaxUSD.GreaterThanOrEqual(settings.MinWithdrawal) && minDisplayed.GreaterThan(maxLocal) {
		minDisplayed = maxLocal
	}

	return Limits{
		Currency: currency,
		MinUSD:   settings.MinWithdrawal,
		MaxUSD:   effectiveMaxUSD,
		MinLocal: minDisplayed,
		MaxLocal: maxLocal,
	}, nil
}
