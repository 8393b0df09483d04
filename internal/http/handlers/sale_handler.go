package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "reware/internal/log"
	"reware/internal/services"
	"reware/internal/validate"
)

type SaleHandler struct {
	Sales *services.SaleService
}

// POST /sell
func (h *SaleHandler) Submit(c *fiber.Ctx) error {
	var req struct {
		Email  string  `json:"email"`
		Device string  `json:"device"`
		Specs  string  `json:"specs"`
		Price  float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	if _, ok := validate.Name(req.Device); !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid device")
	}
	if !validate.Price(req.Price) {
		return jsonError(c, fiber.StatusBadRequest, "invalid price")
	}

	sale, err := h.Sales.Submit(email, req.Device, req.Specs, req.Price)
	if err != nil {
		return failFrom(c, "sell", err)
	}
	applog.Audit(c, "sale.submit", map[string]any{"sale_id": sale.ID, "price": sale.Price})
	return c.JSON(fiber.Map{"saleId": sale.ID})
}
