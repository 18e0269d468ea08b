package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shrinkearn/backend/internal/config"
	"github.com/shrinkearn/backend/internal/db"
	"github.com/shrinkearn/backend/internal/events"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PGMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPoolSize, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	userRepo := repositories.NewUserRepo(pool)
	methodRepo := repositories.NewPaymentMethodRepo(pool)
	withdrawalRepo := repositories.NewWithdrawalRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)
	rateRepo := repositories.NewRateRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	provider := fx.NewProvider(cfg.FXProviderURL, cfg.FXProviderKey, cfg.FXRequestTimeout, log)
	rateService := services.NewRateService(rateRepo, provider, rdb, publisher, cfg.RateCacheTTL, log)
	notificationService := services.NewNotificationService(notificationRepo, publisher, log)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, methodRepo, userRepo, settingsRepo, auditRepo, rateService, notificationService, publisher, cfg, log)

	log.Info("worker started")

	// Refresh rates once at boot so a cold database has a table to serve.
	if err := rateService.Refresh(ctx); err != nil {
		log.Warn("initial rate refresh failed", zap.Error(err))
	}

	payoutTicker := time.NewTicker(cfg.PayoutInterval)
	fxTicker := time.NewTicker(cfg.FXRefreshInterval)
	expiryTicker := time.NewTicker(1 * time.Hour)
	defer payoutTicker.Stop()
	defer fxTicker.Stop()
	defer expiryTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-payoutTicker.C:
			runPayouts(ctx, withdrawalRepo, withdrawalService, log)
		case <-fxTicker.C:
			if err := rateService.Refresh(ctx); err != nil {
				log.Error("rate refresh failed", zap.Error(err))
			}
		case <-expiryTicker.C:
			runPendingExpiry(ctx, withdrawalService, cfg, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runPayouts drains the approved queue: each withdrawal moves to processing
// and then gets paid out. The payout itself is provider plumbing behind the
// service; a failure parks the withdrawal in failed for an admin to retry.
func runPayouts(ctx context.Context, withdrawalRepo *repositories.WithdrawalRepo, withdrawalService *services.WithdrawalService, log *zap.Logger) {
	approved, err := withdrawalRepo.ListByStatus(ctx, models.WithdrawalStatusApproved, 50)
	if err != nil {
		log.Error("failed to list approved withdrawals", zap.Error(err))
		return
	}

	for i := range approved {
		w := approved[i]
		if err := withdrawalService.StartProcessing(ctx, &w); err != nil {
			log.Error("failed to start processing", zap.String("withdrawal_id", w.ID.String()), zap.Error(err))
			continue
		}

		log.Info("paying out withdrawal",
			zap.String("withdrawal_id", w.ID.String()),
			zap.String("provider", w.Provider),
			zap.String("amount_local", w.AmountLocal.String()),
			zap.String("currency", w.Currency),
		)
		if err := withdrawalService.Complete(ctx, &w); err != nil {
			log.Error("payout failed", zap.String("withdrawal_id", w.ID.String()), zap.Error(err))
			_ = withdrawalService.Fail(ctx, &w, err.Error())
		}

		time.Sleep(200 * time.Millisecond) // spacing between provider calls
	}
}

func runPendingExpiry(ctx context.Context, withdrawalService *services.WithdrawalService, cfg *config.Config, log *zap.Logger) {
	cutoff := time.Now().Add(-cfg.PendingExpiry)
	n, err := withdrawalService.ExpireStalePending(ctx, cutoff)
	if err != nil {
		log.Error("pending expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("expired stale withdrawals", zap.Int("count", n))
	}
}
