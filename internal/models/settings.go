package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalSettings are global admin-owned payout limits, all USD.
// MaxWithdrawal = 0 means unlimited; LimitCount = 0 means unlimited
// withdrawals per LimitDays window.
type WithdrawalSettings struct {
	MinWithdrawal decimal.Decimal `json:"min_withdrawal"`
	MaxWithdrawal decimal.Decimal `json:"max_withdrawal"`
	LimitCount    int             `json:"limit_count"`
	LimitDays     int             `json:"limit_days"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func DefaultWithdrawalSettings() WithdrawalSettings {
	return WithdrawalSettings{
		MinWithdrawal: decimal.NewFromInt(2),
		MaxWithdrawal: decimal.Zero,
		LimitCount:    1,
		LimitDays:     1,
	}
}

func (s WithdrawalSettings) Valid() bool {
	return !s.MinWithdrawal.IsNegative() && !s.MaxWithdrawal.IsNegative() &&
		s.LimitCount >= 0 && s.LimitDays >= 1
}

// AllowanceReached reports whether count active withdrawals in the window
// already use up the configured allowance. LimitCount = 0 never limits.
func (s WithdrawalSettings) AllowanceReached(count int) bool {
	return s.LimitCount > 0 && count >= s.LimitCount
}
