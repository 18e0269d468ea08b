package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

type RateHandler struct {
	rateService *services.RateService
	log         *zap.Logger
}

func NewRateHandler(rateService *services.RateService, log *zap.Logger) *RateHandler {
	return &RateHandler{rateService: rateService, log: log}
}

// GET /rates
func (h *RateHandler) List(c *fiber.Ctx) error {
	table, err := h.rateService.Table(c.Context())
	if err != nil {
		h.log.Error("failed to load rate table", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: table})
}

// POST /admin/rates/refresh
func (h *RateHandler) Refresh(c *fiber.Ctx) error {
	if err := h.rateService.Refresh(c.Context()); err != nil {
		h.log.Error("rate refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "rate refresh failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
