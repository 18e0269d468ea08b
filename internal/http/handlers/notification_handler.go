package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	log                 *zap.Logger
}

func NewNotificationHandler(notificationService *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, log: log}
}

// GET /me/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.notificationService.List(c.Context(), middleware.GetUserID(c),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("failed to list notifications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: list})
}

// GET /me/notifications/unread
func (h *NotificationHandler) Unread(c *fiber.Ctx) error {
	count, err := h.notificationService.CountUnread(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.UnreadCountResponse{Unread: count})
}

// POST /me/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid notification id"})
	}
	if err := h.notificationService.MarkRead(c.Context(), middleware.GetUserID(c), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// POST /me/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(c.Context(), middleware.GetUserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
