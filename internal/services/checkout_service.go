package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"reware/internal/domain"
	"reware/internal/repos"
)

// ErrEmptyCart rejects a checkout before any store is touched.
var ErrEmptyCart = errors.New("cart is empty")

// UnitUnavailableError means at least one requested unit is no longer on
// the shelf (already sold, or a racing checkout won it). The whole checkout
// aborts; nothing is persisted.
type UnitUnavailableError struct{ UnitID string }

func (e *UnitUnavailableError) Error() string {
	return fmt.Sprintf("unit %s is no longer available", e.UnitID)
}

// CheckoutService is the checkout transaction: validate the cart against
// the catalog, remove the sold units, price the order, and persist order
// plus catalog mutation atomically. All of it runs inside the catalog
// store's lock+transaction boundary, so two simultaneous checkouts can
// never both win the same unit.
type CheckoutService struct {
	Catalog *repos.CatalogRepo
	Orders  *repos.OrderRepo
}

func NewCheckoutService(catalog *repos.CatalogRepo, orders *repos.OrderRepo) *CheckoutService {
	return &CheckoutService{Catalog: catalog, Orders: orders}
}

func (s *CheckoutService) Checkout(req domain.CheckoutRequest) (domain.Order, error) {
	if len(req.Cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	var order domain.Order
	err := s.Catalog.Mutate(func(tx *sqlx.Tx) error {
		// Phase one: resolve every cart item before touching anything.
		// The charged price is the catalog price; the client-submitted
		// price is advisory.
		items := make([]domain.OrderItem, 0, len(req.Cart))
		seen := make(map[string]bool, len(req.Cart))
		subtotal := 0.0
		for _, ci := range req.Cart {
			id := strings.TrimSpace(ci.ID.String())
			if id == "" || seen[id] {
				// The same physical unit can only be sold once,
				// even within a single cart.
				return &UnitUnavailableError{UnitID: id}
			}
			it, err := s.Catalog.UnitTx(tx, id)
			if errors.Is(err, repos.ErrNotFound) {
				return &UnitUnavailableError{UnitID: id}
			}
			if err != nil {
				return err
			}
			seen[id] = true
			items = append(items, it)
			subtotal += it.Price
		}

		// Phase two: remove the sold units.
		for _, it := range items {
			if err := s.Catalog.RemoveUnitTx(tx, it.UnitID); err != nil {
				return err
			}
		}

		shipping := 0.0
		if req.Insurance {
			shipping = 10.0
		}

		order = domain.Order{
			ID:            "BEST-" + uuid.NewString(),
			CreatedAt:     time.Now().UTC().Format(time.RFC3339),
			Status:        domain.OrderStatusOpen,
			Email:         strings.TrimSpace(req.Email),
			Billing:       req.Billing,
			Shipping:      req.Shipping,
			PaymentMethod: req.PaymentMethod,
			Insurance:     req.Insurance,
			Items:         items,
			Subtotal:      subtotal,
			ShippingCost:  shipping,
			Total:         subtotal + shipping,
		}
		// Same transaction as the catalog mutation: both writes commit
		// or neither does.
		return s.Orders.CreateTx(tx, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
