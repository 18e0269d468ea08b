package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/config"
	"github.com/shrinkearn/backend/internal/events"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"github.com/shrinkearn/backend/internal/withdrawal"
	"go.uber.org/zap"
)

var (
	ErrMethodNotOwned    = errors.New("payment method does not belong to this user")
	ErrWithdrawalLimit   = errors.New("withdrawal limit exceeded for the current period")
	ErrNotCancellable    = errors.New("withdrawal can no longer be cancelled")
	ErrAmountOutOfBounds = errors.New("amount is outside the allowed withdrawal bounds")
)

type WithdrawalService struct {
	withdrawalRepo *repositories.WithdrawalRepo
	methodRepo     *repositories.PaymentMethodRepo
	userRepo       *repositories.UserRepo
	settingsRepo   *repositories.SettingsRepo
	auditRepo      *repositories.AuditRepo
	rates          *RateService
	notifier       *NotificationService
	publisher      events.Publisher
	cfg            *config.Config
	log            *zap.Logger
}

func NewWithdrawalService(
	withdrawalRepo *repositories.WithdrawalRepo,
	methodRepo *repositories.PaymentMethodRepo,
	userRepo *repositories.UserRepo,
	settingsRepo *repositories.SettingsRepo,
	auditRepo *repositories.AuditRepo,
	rates *RateService,
	notifier *NotificationService,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		methodRepo:     methodRepo,
		userRepo:       userRepo,
		settingsRepo:   settingsRepo,
		auditRepo:      auditRepo,
		rates:          rates,
		notifier:       notifier,
		publisher:      publisher,
		cfg:            cfg,
		log:            log,
	}
}

// Session assembles the immutable inputs for one withdrawal wizard session:
// the member's saved methods, the settings snapshot, the live balance and
// the rate table. The returned flow performs its single external call
// through this service.
func (s *WithdrawalService) Session(ctx context.Context, userID uuid.UUID, alerter withdrawal.Alerter) (*withdrawal.Flow, error) {
	methods, err := s.methodRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment methods: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawal settings: %w", err)
	}
	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	table, err := s.rates.Table(ctx)
	if err != nil {
		return nil, err
	}

	return withdrawal.NewFlow(methods, settings, balance, table, &boundSubmitter{svc: s, userID: userID}, alerter), nil
}

// Limits resolves the effective bounds for one of the member's methods,
// for the pre-submit hint in the amount step.
func (s *WithdrawalService) Limits(ctx context.Context, userID, methodID uuid.UUID) (withdrawal.Limits, error) {
	method, err := s.methodRepo.GetByID(ctx, methodID)
	if err != nil {
		return withdrawal.Limits{}, err
	}
	if method.UserID != userID {
		return withdrawal.Limits{}, ErrMethodNotOwned
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return withdrawal.Limits{}, err
	}
	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return withdrawal.Limits{}, err
	}
	table, err := s.rates.Table(ctx)
	if err != nil {
		return withdrawal.Limits{}, err
	}
	return withdrawal.Resolve(balance, settings, method.Currency, table)
}

// boundSubmitter adapts the service to the flow's Submitter for one user.
type boundSubmitter struct {
	svc    *WithdrawalService
	userID uuid.UUID
}

func (b *boundSubmitter) SubmitWithdrawal(ctx context.Context, methodID uuid.UUID, amountUSD decimal.Decimal) (*models.Withdrawal, error) {
	return b.svc.Submit(ctx, b.userID, methodID, amountUSD)
}

// Submit is the authoritative server-side submission: it re-checks bounds
// and the frequency allowance against fresh data, then holds the balance
// and creates the pending withdrawal atomically. The call runs under an
// explicit deadline so a stuck dependency cannot pin the session forever.
func (s *WithdrawalService) Submit(ctx context.Context, userID, methodID uuid.UUID, amountUSD decimal.Decimal) (*models.Withdrawal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SubmitTimeout)
	defer cancel()

	method, err := s.methodRepo.GetByID(ctx, methodID)
	if err != nil {
		return nil, fmt.Errorf("payment method not found: %w", err)
	}
	if method.UserID != userID {
		return nil, ErrMethodNotOwned
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawal settings: %w", err)
	}

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	table, err := s.rates.Table(ctx)
	if err != nil {
		return nil, err
	}
	limits, err := withdrawal.Resolve(balance, settings, method.Currency, table)
	if err != nil {
		return nil, err
	}
	if amountUSD.LessThan(limits.MinUSD) || amountUSD.GreaterThan(limits.MaxUSD) {
		return nil, fmt.Errorf("%w: %s USD, allowed %s to %s USD",
			ErrAmountOutOfBounds, amountUSD, limits.MinUSD, limits.MaxUSD)
	}

	rate, err := table.Rate(method.Currency)
	if err != nil {
		return nil, err
	}
	amountLocal, err := fx.ToLocal(amountUSD, method.Currency, table)
	if err != nil {
		return nil, err
	}

	w := &models.Withdrawal{
		UserID:          userID,
		PaymentMethodID: method.ID,
		Provider:        method.Provider,
		AccountName:     method.AccountName,
		AccountNumber:   method.AccountNumber,
		Currency:        method.Currency,
		AmountUSD:       amountUSD,
		AmountLocal:     amountLocal,
		RateUsed:        rate,
		Status:          models.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.CreateWithHold(ctx, w, settings); err != nil {
		if errors.Is(err, repositories.ErrAllowanceExceeded) {
			return nil, fmt.Errorf("%w: %d per %d day(s)", ErrWithdrawalLimit, settings.LimitCount, settings.LimitDays)
		}
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "withdrawal_requested",
		EntityType:  "withdrawal",
		EntityID:    &w.ID,
		Meta: map[string]any{
			"amount_usd":   amountUSD.String(),
			"amount_local": amountLocal.String(),
			"currency":     method.Currency,
			"provider":     method.Provider,
		},
	})

	s.notifier.Notify(ctx, userID, models.NotificationWithdrawalStatus,
		"Withdrawal requested",
		fmt.Sprintf("Your withdrawal of %s %s is awaiting review.", amountLocal, method.Currency))

	s.log.Info("withdrawal requested",
		zap.String("user_id", userID.String()),
		zap.String("withdrawal_id", w.ID.String()),
		zap.String("amount_usd", amountUSD.String()),
	)
	return w, nil
}

// transition validates and performs a status change with refund handling,
// audit logging and a status event. The repo re-checks the transition
// against the locked row, so a concurrent mover surfaces as
// repositories.ErrStatusConflict rather than a double refund.
func (s *WithdrawalService) transition(ctx context.Context, w *models.Withdrawal, newStatus string, actorID *uuid.UUID, actorType string, reason *string) error {
	if !models.IsValidWithdrawalTransition(w.Status, newStatus) {
		return fmt.Errorf("invalid transition from %s to %s", w.Status, newStatus)
	}

	oldStatus := w.Status
	if err := s.withdrawalRepo.UpdateStatusWithRefund(ctx, w.ID, oldStatus, newStatus, reason); err != nil {
		return err
	}
	w.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("withdrawal_%s_to_%s", oldStatus, newStatus),
		EntityType:  "withdrawal",
		EntityID:    &w.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	_ = s.publisher.Publish(ctx, events.StreamWithdrawals, events.Event{
		Type: events.EventWithdrawalStatusChanged,
		Payload: map[string]any{
			"withdrawal_id": w.ID.String(),
			"user_id":       w.UserID.String(),
			"old_status":    oldStatus,
			"new_status":    newStatus,
		},
	})

	return nil
}

func (s *WithdrawalService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *WithdrawalService) ListQueue(ctx context.Context, status string, limit int) ([]models.Withdrawal, error) {
	return s.withdrawalRepo.ListByStatus(ctx, status, limit)
}

// Cancel lets the owner withdraw a still-pending request; the held amount
// goes back to the balance.
func (s *WithdrawalService) Cancel(ctx context.Context, userID, id uuid.UUID) error {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w.UserID != userID {
		return ErrMethodNotOwned
	}
	if w.Status != models.WithdrawalStatusPending {
		return ErrNotCancellable
	}
	if err := s.transition(ctx, w, models.WithdrawalStatusCancelled, &userID, "user", nil); err != nil {
		return err
	}
	s.notifier.Notify(ctx, userID, models.NotificationWithdrawalStatus,
		"Withdrawal cancelled", "Your withdrawal was cancelled and the amount returned to your balance.")
	return nil
}

func (s *WithdrawalService) Approve(ctx context.Context, adminID, id uuid.UUID) error {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, w, models.WithdrawalStatusApproved, &adminID, "admin", nil); err != nil {
		return err
	}
	s.notifier.Notify(ctx, w.UserID, models.NotificationWithdrawalStatus,
		"Withdrawal approved",
		fmt.Sprintf("Your withdrawal of %s %s was approved and will be paid out shortly.", w.AmountLocal, w.Currency))
	return nil
}

func (s *WithdrawalService) Reject(ctx context.Context, adminID, id uuid.UUID, reason string) error {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, w, models.WithdrawalStatusRejected, &adminID, "admin", &reason); err != nil {
		return err
	}
	s.notifier.Notify(ctx, w.UserID, models.NotificationWithdrawalStatus,
		"Withdrawal rejected",
		fmt.Sprintf("Your withdrawal was rejected: %s. The amount was returned to your balance.", reason))
	return nil
}

// Worker-side transitions.

func (s *WithdrawalService) StartProcessing(ctx context.Context, w *models.Withdrawal) error {
	return s.transition(ctx, w, models.WithdrawalStatusProcessing, nil, "system", nil)
}

func (s *WithdrawalService) Complete(ctx context.Context, w *models.Withdrawal) error {
	if err := s.transition(ctx, w, models.WithdrawalStatusCompleted, nil, "system", nil); err != nil {
		return err
	}
	s.notifier.Notify(ctx, w.UserID, models.NotificationWithdrawalStatus,
		"Withdrawal paid",
		fmt.Sprintf("Your withdrawal of %s %s was paid to your %s account.", w.AmountLocal, w.Currency, w.Provider))
	return nil
}

func (s *WithdrawalService) Fail(ctx context.Context, w *models.Withdrawal, reason string) error {
	return s.transition(ctx, w, models.WithdrawalStatusFailed, nil, "system", &reason)
}

// ExpireStalePending rejects pending withdrawals older than the cutoff so
// held balances do not stay locked forever.
func (s *WithdrawalService) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.withdrawalRepo.ListStalePending(ctx, cutoff, 100)
	if err != nil {
		return 0, err
	}
	reason := "expired: not reviewed in time"
	for i := range stale {
		w := stale[i]
		if err := s.transition(ctx, &w, models.WithdrawalStatusRejected, nil, "system", &reason); err != nil {
			s.log.Error("failed to expire withdrawal", zap.String("withdrawal_id", w.ID.String()), zap.Error(err))
			continue
		}
		s.notifier.Notify(ctx, w.UserID, models.NotificationWithdrawalStatus,
			"Withdrawal expired", "Your withdrawal was not processed in time and the amount was returned to your balance.")
	}
	return len(stale), nil
}
