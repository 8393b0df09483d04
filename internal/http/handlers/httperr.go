package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "reware/internal/log"
	"reware/internal/repos"
	"reware/internal/services"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// failFrom maps service/store errors onto the API error taxonomy:
// validation 400, conflict 409, not found 404, storage 500. Storage
// failures are logged and never surfaced as success.
func failFrom(c *fiber.Ctx, action string, err error) error {
	var unavailable *services.UnitUnavailableError
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return jsonError(c, fiber.StatusBadRequest, "cart is empty")
	case errors.As(err, &unavailable):
		applog.Info(c, action+".conflict", map[string]any{"unit_id": unavailable.UnitID})
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, repos.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not found")
	default:
		applog.Error(c, action+".fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "storage error")
	}
}
