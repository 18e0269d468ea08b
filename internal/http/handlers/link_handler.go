package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shrinkearn/backend/internal/http/dto"
	"github.com/shrinkearn/backend/internal/middleware"
	"github.com/shrinkearn/backend/internal/services"
	"go.uber.org/zap"
)

type LinkHandler struct {
	linkService *services.LinkService
	log         *zap.Logger
}

func NewLinkHandler(linkService *services.LinkService, log *zap.Logger) *LinkHandler {
	return &LinkHandler{linkService: linkService, log: log}
}

// POST /me/links
func (h *LinkHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	link, err := h.linkService.Create(c.Context(), middleware.GetUserID(c), req.TargetURL, req.Alias, req.AdLevel)
	if err != nil {
		if errors.Is(err, services.ErrAliasTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: link})
}

// GET /me/links
func (h *LinkHandler) List(c *fiber.Ctx) error {
	links, err := h.linkService.List(c.Context(), middleware.GetUserID(c),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("failed to list links", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: links})
}

// PATCH /me/links/:id/status
func (h *LinkHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid link id"})
	}

	var req dto.UpdateLinkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.linkService.SetStatus(c.Context(), middleware.GetUserID(c), id, req.Status); err != nil {
		if errors.Is(err, services.ErrLinkNotOwned) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "link not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// DELETE /me/links/:id
func (h *LinkHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid link id"})
	}
	if err := h.linkService.Delete(c.Context(), middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "link not found"})
		}
		h.log.Error("failed to delete link", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// GET /r/:alias
// Public redirect: counts the click, credits the owner and bounces the
// visitor to the destination.
func (h *LinkHandler) Redirect(c *fiber.Ctx) error {
	link, err := h.linkService.Resolve(c.Context(), c.Params("alias"), c.Get("CF-IPCountry"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, services.ErrLinkDisabled) {
			return c.Status(fiber.StatusNotFound).SendString("link not found")
		}
		h.log.Error("failed to resolve link", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
	return c.Redirect(link.TargetURL, fiber.StatusFound)
}
