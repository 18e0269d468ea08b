package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

type AdRateHandler struct {
	adRateService *services.AdRateService
	log           *zap.Logger
}

func NewAdRateHandler(adRateService *services.AdRateService, log *zap.Logger) *AdRateHandler {
	return &AdRateHandler{adRateService: adRateService, log: log}
}

// GET /ad-rates
func (h *AdRateHandler) List(c *fiber.Ctx) error {
	rates, err := h.adRateService.List(c.Context())
	if err != nil {
		h.log.Error("failed to list ad rates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rates})
}

// PUT /admin/ad-rates
func (h *AdRateHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertAdRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	cpc, err := decimal.NewFromString(req.CPCUSD)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid cpc_usd"})
	}

	rate := &models.AdRate{Level: req.Level, Country: req.Country, CPCUSD: cpc}
	if err := h.adRateService.Upsert(c.Context(), middleware.GetUserID(c), rate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rate})
}

// DELETE /admin/ad-rates/:id
func (h *AdRateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid ad rate id"})
	}
	if err := h.adRateService.Delete(c.Context(), middleware.GetUserID(c), id); err != nil {
		h.log.Error("failed to delete ad rate", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
