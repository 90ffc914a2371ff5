package handlers

import (
	"errors"

	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondErr maps service errors to HTTP responses: validation problems are
// 400, missing entities 404, everything else 500 with a generic message.
func respondErr(c *fiber.Ctx, err error) error {
	if services.IsValidation(err) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}
