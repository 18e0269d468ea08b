package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

var supportedProviders = map[string]bool{
	"paypal":        true,
	"dana":          true,
	"gopay":         true,
	"ovo":           true,
	"bank_transfer": true,
	"skrill":        true,
}

var ErrUnsupportedProvider = errors.New("unsupported payout provider")

type PaymentMethodService struct {
	methodRepo *repositories.PaymentMethodRepo
	auditRepo  *repositories.AuditRepo
	rates      *RateService
	log        *zap.Logger
}

func NewPaymentMethodService(methodRepo *repositories.PaymentMethodRepo, auditRepo *repositories.AuditRepo, rates *RateService, log *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo, auditRepo: auditRepo, rates: rates, log: log}
}

// Create saves a payout destination after checking the provider is known
// and the currency has a rate, so every saved method is withdrawable.
func (s *PaymentMethodService) Create(ctx context.Context, m *models.PaymentMethod) error {
	m.Provider = strings.ToLower(strings.TrimSpace(m.Provider))
	m.Currency = strings.ToUpper(strings.TrimSpace(m.Currency))
	m.AccountName = strings.TrimSpace(m.AccountName)
	m.AccountNumber = strings.TrimSpace(m.AccountNumber)

	if !supportedProviders[m.Provider] {
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, m.Provider)
	}
	if m.AccountName == "" || m.AccountNumber == "" {
		return errors.New("account name and account number are required")
	}

	table, err := s.rates.Table(ctx)
	if err != nil {
		return err
	}
	if _, err := table.Rate(m.Currency); err != nil {
		return err
	}

	if err := s.methodRepo.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to save payment method: %w", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &m.UserID,
		ActorType:   "user",
		Action:      "payment_method_added",
		EntityType:  "payment_method",
		EntityID:    &m.ID,
		Meta:        map[string]any{"provider": m.Provider, "currency": m.Currency},
	})
	return nil
}

func (s *PaymentMethodService) List(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	return s.methodRepo.ListByUser(ctx, userID)
}

func (s *PaymentMethodService) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	m, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrMethodNotOwned
	}
	return s.methodRepo.SetDefault(ctx, userID, id)
}

func (s *PaymentMethodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrMethodNotOwned
	}
	if err := s.methodRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "payment_method_removed",
		EntityType:  "payment_method",
		EntityID:    &id,
	})
	return nil
}
