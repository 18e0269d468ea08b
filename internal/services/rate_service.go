package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/events"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

const rateCacheKey = "fx:rates"

// RateService serves the exchange-rate snapshot used by every conversion
// and refreshes it from the external provider.
type RateService struct {
	rateRepo  *repositories.RateRepo
	provider  *fx.Provider
	rdb       *redis.Client
	publisher events.Publisher
	cacheTTL  time.Duration
	log       *zap.Logger
}

func NewRateService(
	rateRepo *repositories.RateRepo,
	provider *fx.Provider,
	rdb *redis.Client,
	publisher events.Publisher,
	cacheTTL time.Duration,
	log *zap.Logger,
) *RateService {
	return &RateService{
		rateRepo:  rateRepo,
		provider:  provider,
		rdb:       rdb,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Table returns the current rate table. Redis holds a short-lived copy so
// the per-request path stays off Postgres; the USD pin is applied on every
// load, whatever the stored data says.
func (s *RateService) Table(ctx context.Context) (fx.RateTable, error) {
	if cached, err := s.rdb.Get(ctx, rateCacheKey).Bytes(); err == nil {
		var raw map[string]decimal.Decimal
		if err := json.Unmarshal(cached, &raw); err == nil && len(raw) > 0 {
			return fx.NewRateTable(raw), nil
		}
	}

	rows, err := s.rateRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	raw := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		raw[row.Currency] = row.Rate
	}
	table := fx.NewRateTable(raw)

	if data, err := json.Marshal(map[string]decimal.Decimal(table)); err == nil {
		if err := s.rdb.Set(ctx, rateCacheKey, data, s.cacheTTL).Err(); err != nil {
			s.log.Warn("failed to cache rate table", zap.Error(err))
		}
	}
	return table, nil
}

// Refresh pulls the latest rates from the provider and replaces the stored
// snapshot. Called by the worker on a ticker and by admins on demand.
func (s *RateService) Refresh(ctx context.Context) error {
	rates, err := s.provider.FetchLatest(ctx)
	if err != nil {
		return err
	}

	for currency, rate := range rates {
		if err := s.rateRepo.Upsert(ctx, currency, rate, "provider"); err != nil {
			return fmt.Errorf("failed to store rate for %s: %w", currency, err)
		}
	}

	if err := s.rdb.Del(ctx, rateCacheKey).Err(); err != nil {
		s.log.Warn("failed to invalidate rate cache", zap.Error(err))
	}

	_ = s.publisher.Publish(ctx, events.StreamNotifications, events.Event{
		Type:    events.EventRatesRefreshed,
		Payload: map[string]any{"currencies": len(rates)},
	})

	s.log.Info("exchange rates refreshed", zap.Int("currencies", len(rates)))
	return nil
}
