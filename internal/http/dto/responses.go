package dto

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// LimitsResponse is the amount-step hint: bounds in the method's currency,
// display-rounded, plus the USD equivalents the server validates against.
type LimitsResponse struct {
	Currency string `json:"currency"`
	MinLocal string `json:"min_local"`
	MaxLocal string `json:"max_local"`
	MinUSD   string `json:"min_usd"`
	MaxUSD   string `json:"max_usd"`
}

type BalanceResponse struct {
	BalanceUSD string `json:"balance_usd"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
