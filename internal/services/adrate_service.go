package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

var ErrInvalidAdRate = errors.New("invalid ad rate")

type AdRateService struct {
	adRateRepo *repositories.AdRateRepo
	auditRepo  *repositories.AuditRepo
	log        *zap.Logger
}

func NewAdRateService(adRateRepo *repositories.AdRateRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *AdRateService {
	return &AdRateService{adRateRepo: adRateRepo, auditRepo: auditRepo, log: log}
}

func (s *AdRateService) List(ctx context.Context) ([]models.AdRate, error) {
	return s.adRateRepo.List(ctx)
}

func (s *AdRateService) Upsert(ctx context.Context, adminID uuid.UUID, rate *models.AdRate) error {
	if rate.Level < models.AdLevelMin || rate.Level > models.AdLevelMax {
		return fmt.Errorf("%w: level must be %d..%d", ErrInvalidAdRate, models.AdLevelMin, models.AdLevelMax)
	}
	if !rate.CPCUSD.IsPositive() {
		return fmt.Errorf("%w: cpc must be positive", ErrInvalidAdRate)
	}
	if rate.Country != "" && len(rate.Country) != 2 {
		return fmt.Errorf("%w: country must be a 2-letter code or empty", ErrInvalidAdRate)
	}

	if err := s.adRateRepo.Upsert(ctx, rate); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "ad_rate_updated",
		EntityType:  "ad_rate",
		EntityID:    &rate.ID,
		Meta: map[string]any{
			"level":   rate.Level,
			"country": rate.Country,
			"cpc_usd": rate.CPCUSD.String(),
		},
	})
	return nil
}

func (s *AdRateService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	if err := s.adRateRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "ad_rate_deleted",
		EntityType:  "ad_rate",
		EntityID:    &id,
	})
	return nil
}
