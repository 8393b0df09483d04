package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"reware/internal/repos"
	"reware/internal/services"
)

type Deps struct {
	CheckoutHandler *CheckoutHandler
	SaleHandler     *SaleHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
	AccountHandler  *AccountHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	catalogRepo := repos.NewCatalogRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	userRepo := repos.NewUserRepo(db)

	checkoutSvc := services.NewCheckoutService(catalogRepo, orderRepo)
	saleSvc := services.NewSaleService(saleRepo)
	authSvc := services.NewAuthService(userRepo)

	return &Deps{
		CheckoutHandler: &CheckoutHandler{Svc: checkoutSvc, Users: userRepo},
		SaleHandler:     &SaleHandler{Sales: saleSvc},
		OrderHandler:    &OrderHandler{Orders: orderRepo, Sales: saleRepo},
		AdminHandler:    &AdminHandler{OrderRepo: orderRepo, SaleRepo: saleRepo, CatalogRepo: catalogRepo},
		AccountHandler:  &AccountHandler{Auth: authSvc},
	}
}

// Register mounts all routes; main adds the middleware stack first.
func Register(app *fiber.App, d *Deps) {
	app.Get("/catalog", d.AdminHandler.Catalog)
	app.Post("/checkout", d.CheckoutHandler.Checkout)
	app.Post("/sell", d.SaleHandler.Submit)

	app.Post("/my-orders", d.OrderHandler.MyOrders)
	app.Post("/my-sales", d.OrderHandler.MySales)

	app.Post("/api/register", d.AccountHandler.Register)
	app.Post("/api/login", d.AccountHandler.Login)

	admin := app.Group("/admin")
	admin.Get("/orders", d.AdminHandler.Orders)
	admin.Post("/orders", d.AdminHandler.UpdateOrderStatus)
	admin.Get("/sales", d.AdminHandler.Sales)
	admin.Post("/sales", d.AdminHandler.UpdateSaleStatus)
	admin.Get("/catalog", d.AdminHandler.Catalog)
	admin.Post("/catalog", d.AdminHandler.ReplaceCatalog)
	admin.Post("/catalog/restock", d.AdminHandler.Restock)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
