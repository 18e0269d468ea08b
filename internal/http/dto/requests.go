package dto

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePaymentMethodRequest struct {
	Provider      string `json:"provider"` // paypal / dana / gopay / ovo / bank_transfer / skrill
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Currency      string `json:"currency"` // ISO 4217
	FeeUSD        string `json:"fee_usd,omitempty"`
	IsDefault     bool   `json:"is_default"`
}

// CreateWithdrawalRequest carries one pass through the two-step wizard:
// step 1 picks the method (default or explicit), step 2 the amount in the
// method's own currency.
type CreateWithdrawalRequest struct {
	UseDefault bool   `json:"use_default"`
	MethodID   string `json:"method_id,omitempty"`
	Amount     string `json:"amount"` // in the method's currency
}

type RejectWithdrawalRequest struct {
	Reason string `json:"reason"`
}

type UpdateSettingsRequest struct {
	MinWithdrawal string `json:"min_withdrawal"`
	MaxWithdrawal string `json:"max_withdrawal"` // "0" = unlimited
	LimitCount    int    `json:"limit_count"`    // 0 = unlimited
	LimitDays     int    `json:"limit_days"`
}

type UpsertAdRateRequest struct {
	Level   int    `json:"level"`             // 1..3
	Country string `json:"country,omitempty"` // "" = default rate
	CPCUSD  string `json:"cpc_usd"`
}

type CreateLinkRequest struct {
	TargetURL string `json:"target_url"`
	Alias     string `json:"alias,omitempty"`
	AdLevel   int    `json:"ad_level,omitempty"`
}

type UpdateLinkStatusRequest struct {
	Status string `json:"status"` // active / disabled
}

type ChangeRoleRequest struct {
	Role string `json:"role"` // member / admin / superadmin
}
