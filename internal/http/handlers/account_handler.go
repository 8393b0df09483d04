package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "reware/internal/log"
	"reware/internal/services"
	"reware/internal/validate"
)

type AccountHandler struct {
	Auth *services.AuthService
}

// POST /api/register
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	username, ok := validate.Name(req.Username)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Ungültiger Nutzername"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Ungültige E-Mail-Adresse"})
	}
	if !validate.Password(req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Passwort zu schwach"})
	}

	_, err := h.Auth.Register(username, email, req.Password)
	if errors.Is(err, services.ErrUsernameTaken) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Nutzername bereits vergeben"})
	}
	if errors.Is(err, services.ErrEmailTaken) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "E-Mail bereits vergeben"})
	}
	if err != nil {
		return failFrom(c, "account.register", err)
	}
	applog.Audit(c, "account.register", map[string]any{"username": username})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Konto erfolgreich erstellt"})
}

// POST /api/login
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	u, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Nutzername oder Passwort falsch"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return c.JSON(fiber.Map{
		"message":  "Login erfolgreich",
		"username": u.Username,
		"email":    u.Email,
	})
}
