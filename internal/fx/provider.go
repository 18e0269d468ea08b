package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Provider pulls the latest USD-based rates from an external FX API.
type Provider struct {
	client *resty.Client
	log    *zap.Logger
}

func NewProvider(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Provider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Provider{client: client, log: log}
}

type latestResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

// FetchLatest returns currency -> units per 1 USD.
func (p *Provider) FetchLatest(ctx context.Context) (map[string]decimal.Decimal, error) {
	var out latestResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/latest/" + BaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("fx provider unavailable: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fx provider returned %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Result != "" && out.Result != "success" {
		return nil, fmt.Errorf("fx provider result %q", out.Result)
	}
	if len(out.Rates) == 0 {
		return nil, fmt.Errorf("fx provider returned no rates")
	}

	rates := make(map[string]decimal.Decimal, len(out.Rates))
	for code, rate := range out.Rates {
		if rate <= 0 {
			p.log.Warn("skipping non-positive rate from provider",
				zap.String("currency", code), zap.Float64("rate", rate))
			continue
		}
		rates[code] = decimal.NewFromFloat(rate)
	}
	return rates, nil
}
