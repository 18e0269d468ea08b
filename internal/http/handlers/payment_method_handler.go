package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

type PaymentMethodHandler struct {
	methodService *services.PaymentMethodService
	log           *zap.Logger
}

func NewPaymentMethodHandler(methodService *services.PaymentMethodService, log *zap.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService, log: log}
}

// GET /me/payment-methods
func (h *PaymentMethodHandler) List(c *fiber.Ctx) error {
	methods, err := h.methodService.List(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("failed to list payment methods", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: methods})
}

// POST /me/payment-methods
func (h *PaymentMethodHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	fee := decimal.Zero
	if req.FeeUSD != "" {
		var err error
		if fee, err = decimal.NewFromString(req.FeeUSD); err != nil || fee.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid fee"})
		}
	}

	method := &models.PaymentMethod{
		UserID:        middleware.GetUserID(c),
		Provider:      req.Provider,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		Currency:      req.Currency,
		FeeUSD:        fee,
		IsDefault:     req.IsDefault,
	}
	if err := h.methodService.Create(c.Context(), method); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: method})
}

// POST /me/payment-methods/:id/default
func (h *PaymentMethodHandler) SetDefault(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid method id"})
	}
	if err := h.methodService.SetDefault(c.Context(), middleware.GetUserID(c), id); err != nil {
		return methodError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// DELETE /me/payment-methods/:id
func (h *PaymentMethodHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid method id"})
	}
	if err := h.methodService.Delete(c.Context(), middleware.GetUserID(c), id); err != nil {
		return methodError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func methodError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "payment method not found"})
	case errors.Is(err, services.ErrMethodNotOwned):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
}
