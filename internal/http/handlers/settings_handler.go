package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
	log             *zap.Logger
}

func NewSettingsHandler(settingsService *services.SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, log: log}
}

// GET /withdrawal-settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settingsService.Get(c.Context())
	if err != nil {
		h.log.Error("failed to load settings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: settings})
}

// PUT /admin/withdrawal-settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	min, err := decimal.NewFromString(req.MinWithdrawal)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid min_withdrawal"})
	}
	max, err := decimal.NewFromString(req.MaxWithdrawal)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid max_withdrawal"})
	}

	settings := models.WithdrawalSettings{
		MinWithdrawal: min,
		MaxWithdrawal: max,
		LimitCount:    req.LimitCount,
		LimitDays:     req.LimitDays,
	}
	if err := h.settingsService.Update(c.Context(), middleware.GetUserID(c), settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: settings})
}
