package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/shrinkearn/backend/internal/config"
	"github.com/shrinkearn/backend/internal/db"
	"github.com/shrinkearn/backend/internal/events"
	"github.com/shrinkearn/backend/internal/fx"
	apphttp "github.com/shrinkearn/backend/internal/http"
	"github.com/shrinkearn/backend/internal/http/handlers"
	"github.com/shrinkearn/backend/internal/linkmeta"
	"github.com/shrinkearn/backend/internal/repositories"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PGMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPoolSize, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	methodRepo := repositories.NewPaymentMethodRepo(pool)
	withdrawalRepo := repositories.NewWithdrawalRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)
	rateRepo := repositories.NewRateRepo(pool)
	linkRepo := repositories.NewLinkRepo(pool)
	adRateRepo := repositories.NewAdRateRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	provider := fx.NewProvider(cfg.FXProviderURL, cfg.FXProviderKey, cfg.FXRequestTimeout, log)
	rateService := services.NewRateService(rateRepo, provider, rdb, publisher, cfg.RateCacheTTL, log)
	notificationService := services.NewNotificationService(notificationRepo, publisher, log)
	userService := services.NewUserService(userRepo, auditRepo, cfg, log)
	methodService := services.NewPaymentMethodService(methodRepo, auditRepo, rateService, log)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, methodRepo, userRepo, settingsRepo, auditRepo, rateService, notificationService, publisher, cfg, log)
	settingsService := services.NewSettingsService(settingsRepo, auditRepo, log)
	adRateService := services.NewAdRateService(adRateRepo, auditRepo, log)
	metaFetcher := linkmeta.NewFetcher(cfg.LinkMetaTimeoutMS, cfg.LinkMetaMaxRetries, log)
	linkService := services.NewLinkService(linkRepo, adRateRepo, userRepo, metaFetcher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	methodHandler := handlers.NewPaymentMethodHandler(methodService, log)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, log)
	linkHandler := handlers.NewLinkHandler(linkService, log)
	settingsHandler := handlers.NewSettingsHandler(settingsService, log)
	rateHandler := handlers.NewRateHandler(rateService, log)
	adRateHandler := handlers.NewAdRateHandler(adRateService, log)
	notificationHandler := handlers.NewNotificationHandler(notificationService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb,
		authHandler, userHandler, methodHandler, withdrawalHandler,
		linkHandler, settingsHandler, rateHandler, adRateHandler,
		notificationHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
