package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

type SettingsService struct {
	settingsRepo *repositories.SettingsRepo
	auditRepo    *repositories.AuditRepo
	log          *zap.Logger
}

func NewSettingsService(settingsRepo *repositories.SettingsRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, auditRepo: auditRepo, log: log}
}

func (s *SettingsService) Get(ctx context.Context) (models.WithdrawalSettings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, adminID uuid.UUID, settings models.WithdrawalSettings) error {
	if !settings.Valid() {
		return errors.New("invalid withdrawal settings: bounds must be non-negative and the limit window at least one day")
	}
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "withdrawal_settings_updated",
		EntityType:  "withdrawal_settings",
		Meta: map[string]any{
			"min_withdrawal": settings.MinWithdrawal.String(),
			"max_withdrawal": settings.MaxWithdrawal.String(),
			"limit_count":    settings.LimitCount,
			"limit_days":     settings.LimitDays,
		},
	})
	s.log.Info("withdrawal settings updated", zap.String("admin_id", adminID.String()))
	return nil
}
