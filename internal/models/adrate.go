package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ad levels, ordered by intrusiveness. Higher levels pay more per click.
const (
	AdLevelMin = 1
	AdLevelMax = 3
)

// AdRate is the CPC paid for one valid click on a link served with the
// given ad level, for visitors from Country. Country "" is the default row
// used when no country-specific rate exists.
type AdRate struct {
	ID        uuid.UUID       `json:"id"`
	Level     int             `json:"level"`
	Country   string          `json:"country,omitempty"` // ISO 3166-1 alpha-2, "" = default
	CPCUSD    decimal.Decimal `json:"cpc_usd"`
	UpdatedAt time.Time       `json:"updated_at"`
}
