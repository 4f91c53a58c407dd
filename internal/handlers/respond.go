package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"swipe/interview-assistant/internal/models"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Provider
// failures never reach here; they are absorbed by fallbacks upstream.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrOutOfRange):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
}
