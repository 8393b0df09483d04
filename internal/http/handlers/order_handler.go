package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "reware/internal/log"
	"reware/internal/repos"
	"reware/internal/validate"
)

// OrderHandler serves the customer-facing "my orders" / "my sales" views.
// Attribution is by denormalized email snapshot, not by account linkage.
type OrderHandler struct {
	Orders *repos.OrderRepo
	Sales  *repos.SaleRepo
}

func parseEmail(c *fiber.Ctx) (string, bool) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return "", false
	}
	email, ok := validate.Email(req.Email)
	return email, ok
}

// POST /my-orders
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	email, ok := parseEmail(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	orders, err := h.Orders.FindByEmail(email)
	if err != nil {
		return failFrom(c, "orders.list", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// POST /my-sales
func (h *OrderHandler) MySales(c *fiber.Ctx) error {
	email, ok := parseEmail(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	sales, err := h.Sales.FindByEmail(email)
	if err != nil {
		return failFrom(c, "sales.list", err)
	}
	return c.JSON(fiber.Map{"sales": sales})
}
