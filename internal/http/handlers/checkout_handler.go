package handlers

import (
	"github.com/gofiber/fiber/v2"

	"reware/internal/domain"
	applog "reware/internal/log"
	"reware/internal/repos"
	"reware/internal/services"
	"reware/internal/validate"
)

type CheckoutHandler struct {
	Svc   *services.CheckoutService
	Users *repos.UserRepo
}

// POST /checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req domain.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "checkout.badbody", map[string]any{"err": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email != "" {
		email, ok := validate.Email(req.Email)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "email"})
			return jsonError(c, fiber.StatusBadRequest, "invalid email")
		}
		req.Email = email
	}
	if _, ok := validate.Name(req.Billing.Name); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "billingAddress.name"})
		return jsonError(c, fiber.StatusBadRequest, "invalid billing address")
	}
	if _, ok := validate.ZIP(req.Shipping.ZIP); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "shippingAddress.zip"})
		return jsonError(c, fiber.StatusBadRequest, "invalid shipping ZIP")
	}

	order, err := h.Svc.Checkout(req)
	if err != nil {
		return failFrom(c, "checkout", err)
	}

	// Orders stay self-contained; account lookup is attribution only.
	known := false
	if req.Email != "" && h.Users != nil {
		if _, err := h.Users.ByEmail(req.Email); err == nil {
			known = true
		}
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":     order.ID,
		"server_total": order.Total,
		"client_total": req.ClientTotal(),
		"mismatch":     order.Subtotal != req.ClientTotal(),
		"units":        len(order.Items),
		"account":      known,
	})
	return c.JSON(fiber.Map{"orderId": order.ID, "total": order.Total})
}
