package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate expresses "1 USD = Rate units of Currency".
// The USD row is pinned to exactly 1.
type ExchangeRate struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	UpdatedAt time.Time       `json:"updated_at"`
}
