package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal statuses
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusApproved   = "approved"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
	WithdrawalStatusRejected   = "rejected"
	WithdrawalStatusCancelled  = "cancelled"
)

// Valid state transitions: from -> []to
var ValidWithdrawalTransitions = map[string][]string{
	WithdrawalStatusPending:    {WithdrawalStatusApproved, WithdrawalStatusRejected, WithdrawalStatusCancelled},
	WithdrawalStatusApproved:   {WithdrawalStatusProcessing},
	WithdrawalStatusProcessing: {WithdrawalStatusCompleted, WithdrawalStatusFailed},
	WithdrawalStatusFailed:     {WithdrawalStatusApproved, WithdrawalStatusRejected},
	WithdrawalStatusCompleted:  {},
	WithdrawalStatusRejected:   {},
	WithdrawalStatusCancelled:  {},
}

func IsValidWithdrawalTransition(from, to string) bool {
	allowed, ok := ValidWithdrawalTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// RefundsBalance reports whether moving to this status returns the held
// amount to the user's balance.
func RefundsBalance(to string) bool {
	return to == WithdrawalStatusRejected || to == WithdrawalStatusCancelled
}

// Withdrawal is a payout request. AmountUSD is authoritative; AmountLocal
// and RateUsed record what the member saw at submission time.
type Withdrawal struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id"`
	Provider        string          `json:"provider"`
	AccountName     string          `json:"account_name"`
	AccountNumber   string          `json:"account_number"`
	Currency        string          `json:"currency"`
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	AmountLocal     decimal.Decimal `json:"amount_local"`
	RateUsed        decimal.Decimal `json:"rate_used"`
	Status          string          `json:"status"`
	RejectReason    *string         `json:"reject_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
