package handlers

import (
	"github.com/gofiber/fiber/v2"

	"reware/internal/domain"
	applog "reware/internal/log"
	"reware/internal/repos"
	"reware/internal/validate"
)

type AdminHandler struct {
	OrderRepo   *repos.OrderRepo
	SaleRepo    *repos.SaleRepo
	CatalogRepo *repos.CatalogRepo
}

// GET /admin/orders
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.OrderRepo.ListAll()
	if err != nil {
		return failFrom(c, "admin.orders.list", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// POST /admin/orders  {orderId, status}
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	status, ok := validate.Status(req.Status)
	if req.OrderID == "" || !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing orderId or status")
	}
	if err := h.OrderRepo.UpdateStatus(req.OrderID, status); err != nil {
		return failFrom(c, "admin.orders.update", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": req.OrderID, "status": status})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /admin/sales
func (h *AdminHandler) Sales(c *fiber.Ctx) error {
	sales, err := h.SaleRepo.ListAll()
	if err != nil {
		return failFrom(c, "admin.sales.list", err)
	}
	return c.JSON(fiber.Map{"sales": sales})
}

// POST /admin/sales  {saleId, status}
func (h *AdminHandler) UpdateSaleStatus(c *fiber.Ctx) error {
	var req struct {
		SaleID string `json:"saleId"`
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	status, ok := validate.Status(req.Status)
	if req.SaleID == "" || !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing saleId or status")
	}
	if err := h.SaleRepo.UpdateStatus(req.SaleID, status); err != nil {
		return failFrom(c, "admin.sales.update", err)
	}
	applog.Audit(c, "admin.sales.update", map[string]any{"sale_id": req.SaleID, "status": status})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /catalog, GET /admin/catalog
func (h *AdminHandler) Catalog(c *fiber.Ctx) error {
	cat, err := h.CatalogRepo.Snapshot()
	if err != nil {
		return failFrom(c, "catalog.read", err)
	}
	return c.JSON(cat)
}

// POST /admin/catalog — bulk replace of the whole catalog document.
func (h *AdminHandler) ReplaceCatalog(c *fiber.Ctx) error {
	var cat domain.Catalog
	if err := c.BodyParser(&cat); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid catalog document")
	}
	for _, prods := range cat {
		for _, p := range prods {
			if _, ok := validate.ID(p.ID); !ok {
				return jsonError(c, fiber.StatusBadRequest, "invalid product id")
			}
			for _, u := range p.Units {
				if _, ok := validate.ID(u.ID); !ok || !validate.Price(u.Price) {
					return jsonError(c, fiber.StatusBadRequest, "invalid unit in product "+p.ID)
				}
			}
		}
	}
	if err := h.CatalogRepo.Replace(cat); err != nil {
		return failFrom(c, "admin.catalog.replace", err)
	}
	applog.Audit(c, "admin.catalog.replace", map[string]any{"brands": len(cat)})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /admin/catalog/restock  {productId, unit}
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	var req struct {
		ProductID string      `json:"productId"`
		Unit      domain.Unit `json:"unit"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid productId")
	}
	if _, ok := validate.ID(req.Unit.ID); !ok || !validate.Price(req.Unit.Price) {
		return jsonError(c, fiber.StatusBadRequest, "invalid unit")
	}
	if err := h.CatalogRepo.Restock(req.ProductID, req.Unit); err != nil {
		return failFrom(c, "admin.catalog.restock", err)
	}
	applog.Audit(c, "admin.catalog.restock", map[string]any{"product": req.ProductID, "unit": req.Unit.ID})
	return c.JSON(fiber.Map{"ok": true})
}
