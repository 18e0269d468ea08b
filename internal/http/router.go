package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shrinkearn/backend/internal/config"
	"github.com/shrinkearn/backend/internal/http/handlers"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/rbac"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	methodHandler *handlers.PaymentMethodHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	linkHandler *handlers.LinkHandler,
	settingsHandler *handlers.SettingsHandler,
	rateHandler *handlers.RateHandler,
	adRateHandler *handlers.AdRateHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public redirect, rate-limited per IP. Lives outside /api so short
	// URLs stay short.
	app.Get("/r/:alias", middleware.RateLimitMiddleware(rdb, 300, time.Minute), linkHandler.Redirect)

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", middleware.RateLimitMiddleware(rdb, 10, time.Minute), authHandler.Register)
	api.Post("/auth/login", middleware.RateLimitMiddleware(rdb, 20, time.Minute), authHandler.Login)

	// Public reference data
	api.Get("/rates", rateHandler.List)
	api.Get("/ad-rates", adRateHandler.List)
	api.Get("/withdrawal-settings", settingsHandler.Get)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.Me)
	protected.Get("/me/balance", userHandler.Balance)

	// Payment methods
	protected.Get("/me/payment-methods", methodHandler.List)
	protected.Post("/me/payment-methods", methodHandler.Create)
	protected.Post("/me/payment-methods/:id/default", methodHandler.SetDefault)
	protected.Delete("/me/payment-methods/:id", methodHandler.Delete)

	// Withdrawals
	withdraw := protected.Group("", middleware.RequirePermission(rbac.PermWithdraw))
	withdraw.Get("/me/withdrawals/limits", withdrawalHandler.Limits)
	withdraw.Post("/me/withdrawals",
		middleware.RateLimitMiddleware(rdb, cfg.WithdrawalRateLimit, cfg.WithdrawalRateWindow),
		withdrawalHandler.Create)
	withdraw.Get("/me/withdrawals", withdrawalHandler.History)
	withdraw.Post("/me/withdrawals/:id/cancel", withdrawalHandler.Cancel)

	// Links
	protected.Post("/me/links", linkHandler.Create)
	protected.Get("/me/links", linkHandler.List)
	protected.Patch("/me/links/:id/status", linkHandler.SetStatus)
	protected.Delete("/me/links/:id", linkHandler.Delete)

	// Notifications
	protected.Get("/me/notifications", notificationHandler.List)
	protected.Get("/me/notifications/unread", notificationHandler.Unread)
	protected.Post("/me/notifications/:id/read", notificationHandler.MarkRead)
	protected.Post("/me/notifications/read-all", notificationHandler.MarkAllRead)

	// Admin
	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.Get("/withdrawals", middleware.RequirePermission(rbac.PermReviewWithdrawals), withdrawalHandler.Queue)
	admin.Post("/withdrawals/:id/approve", middleware.RequirePermission(rbac.PermReviewWithdrawals), withdrawalHandler.Approve)
	admin.Post("/withdrawals/:id/reject", middleware.RequirePermission(rbac.PermReviewWithdrawals), withdrawalHandler.Reject)
	admin.Put("/withdrawal-settings", middleware.RequirePermission(rbac.PermManageSettings), settingsHandler.Update)
	admin.Put("/ad-rates", middleware.RequirePermission(rbac.PermManageAdRates), adRateHandler.Upsert)
	admin.Delete("/ad-rates/:id", middleware.RequirePermission(rbac.PermManageAdRates), adRateHandler.Delete)
	admin.Post("/rates/refresh", middleware.RequirePermission(rbac.PermManageSettings), rateHandler.Refresh)
	admin.Get("/users", middleware.RequirePermission(rbac.PermManageUsers), userHandler.List)
	admin.Patch("/users/:id/role", middleware.RequirePermission(rbac.PermManageUsers), userHandler.ChangeRole)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
