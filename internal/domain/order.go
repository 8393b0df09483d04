package domain

// Order lifecycle statuses. The set is open-ended; admins may set values
// outside this list. Only the transition to Versendet has a side effect
// (shippedDate gets stamped).
const (
	OrderStatusOpen    = "Offen"
	OrderStatusShipped = "Versendet"
)

type Address struct {
	Name   string `json:"name"`
	Street string `json:"street"`
	ZIP    string `json:"zip"`
	City   string `json:"city"`
}

// OrderItem is a snapshot of a sold unit. Orders stay self-contained after
// creation: no live reference back into the catalog.
type OrderItem struct {
	UnitID    string  `json:"unitId" db:"unit_id"`
	Brand     string  `json:"brand" db:"brand"`
	Product   string  `json:"product" db:"product"`
	Condition string  `json:"condition" db:"condition"`
	Storage   string  `json:"storage,omitempty" db:"storage"`
	Color     string  `json:"color,omitempty" db:"color"`
	Price     float64 `json:"price" db:"price"`
}

type Order struct {
	ID            string      `json:"id"`
	CreatedAt     string      `json:"createdAt"`
	Status        string      `json:"status"`
	ShippedDate   string      `json:"shippedDate,omitempty"`
	Email         string      `json:"email,omitempty"`
	Billing       Address     `json:"billingAddress"`
	Shipping      Address     `json:"shippingAddress"`
	PaymentMethod string      `json:"paymentMethod"`
	Insurance     bool        `json:"insurance"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	ShippingCost  float64     `json:"shipping"`
	Total         float64     `json:"total"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	Cart          []CartItem `json:"cart"`
	Email         string     `json:"email"`
	Billing       Address    `json:"billingAddress"`
	Shipping      Address    `json:"shippingAddress"`
	PaymentMethod string     `json:"paymentMethod"`
	Insurance     bool       `json:"insurance"`
}

// ClientTotal sums the prices the client submitted with the cart. Used only
// for audit logging against the server-computed total.
func (r CheckoutRequest) ClientTotal() float64 {
	t := 0.0
	for _, it := range r.Cart {
		t += it.Price
	}
	return t
}
