package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is a saved payout destination. Currency is the method's
// native currency; FeeUSD is the display fee, the processor applies the
// authoritative one.
type PaymentMethod struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Provider      string          `json:"provider"` // paypal / dana / bank_transfer / ...
	AccountName   string          `json:"account_name"`
	AccountNumber string          `json:"account_number"`
	Currency      string          `json:"currency"`
	FeeUSD        decimal.Decimal `json:"fee_usd"`
	IsDefault     bool            `json:"is_default"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
