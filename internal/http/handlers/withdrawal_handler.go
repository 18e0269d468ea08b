package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shrinkearn/backend/internal/fx"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/repositories"
	"github.com/shrinkearn/backend/internal/services"
	"github.com/shrinkearn/backend/internal/withdrawal"
	"go.uber.org/zap"
)

type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
	log               *zap.Logger
}

func NewWithdrawalHandler(withdrawalService *services.WithdrawalService, log *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService, log: log}
}

// collectAlerter keeps submission failure messages for the response body.
type collectAlerter struct {
	messages []string
}

func (a *collectAlerter) Alert(message string) {
	a.messages = append(a.messages, message)
}

// GET /me/withdrawals/limits?method_id=...
// Bounds for the amount step, in the method's currency.
func (h *WithdrawalHandler) Limits(c *fiber.Ctx) error {
	methodID, err := uuid.Parse(c.Query("method_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "method_id is required"})
	}

	limits, err := h.withdrawalService.Limits(c.Context(), middleware.GetUserID(c), methodID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.LimitsResponse{
		Currency: limits.Currency,
		MinLocal: limits.MinLocal.String(),
		MaxLocal: limits.MaxLocal.String(),
		MinUSD:   limits.MinUSD.String(),
		MaxUSD:   limits.MaxUSD.String(),
	})
}

// POST /me/withdrawals
// Runs the two-step wizard in one request: method selection (default or
// explicit), then amount entry and submission.
func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	alerter := &collectAlerter{}
	flow, err := h.withdrawalService.Session(c.Context(), middleware.GetUserID(c), alerter)
	if err != nil {
		h.log.Error("failed to open withdrawal session", zap.Error(err))
		return h.mapError(c, err)
	}

	if req.UseDefault {
		flow.UseDefault(true)
	} else {
		methodID, err := uuid.Parse(req.MethodID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "method_id is required when use_default is false"})
		}
		flow.SelectMethod(methodID)
	}
	if err := flow.Next(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	flow.SetAmount(req.Amount)
	result, err := flow.Submit(c.Context())
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: result.Withdrawal})
}

// GET /me/withdrawals
func (h *WithdrawalHandler) History(c *fiber.Ctx) error {
	list, err := h.withdrawalService.ListForUser(c.Context(), middleware.GetUserID(c),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("failed to list withdrawals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: list})
}

// POST /me/withdrawals/:id/cancel
func (h *WithdrawalHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid withdrawal id"})
	}
	if err := h.withdrawalService.Cancel(c.Context(), middleware.GetUserID(c), id); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// GET /admin/withdrawals?status=pending
func (h *WithdrawalHandler) Queue(c *fiber.Ctx) error {
	status := c.Query("status", models.WithdrawalStatusPending)
	list, err := h.withdrawalService.ListQueue(c.Context(), status, c.QueryInt("limit", 100))
	if err != nil {
		h.log.Error("failed to list withdrawal queue", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: list})
}

// POST /admin/withdrawals/:id/approve
func (h *WithdrawalHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid withdrawal id"})
	}
	if err := h.withdrawalService.Approve(c.Context(), middleware.GetUserID(c), id); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// POST /admin/withdrawals/:id/reject
func (h *WithdrawalHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid withdrawal id"})
	}

	var req dto.RejectWithdrawalRequest
	if err := c.BodyParser(&req); err != nil || req.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "a rejection reason is required"})
	}
	if err := h.withdrawalService.Reject(c.Context(), middleware.GetUserID(c), id, req.Reason); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *WithdrawalHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, services.ErrMethodNotOwned):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrWithdrawalLimit):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repositories.ErrStatusConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotCancellable),
		errors.Is(err, services.ErrAmountOutOfBounds),
		errors.Is(err, withdrawal.ErrNoDefaultMethod),
		errors.Is(err, withdrawal.ErrNoMethodSelected),
		errors.Is(err, withdrawal.ErrAmountInvalid),
		errors.Is(err, repositories.ErrInsufficientBalance),
		errors.Is(err, fx.ErrUnknownCurrency):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	h.log.Error("withdrawal operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}
