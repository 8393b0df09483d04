package domain

// Initial status for trade-in submissions; admins move sales to terminal
// states (accepted, rejected, paid out) from the admin screen.
const SaleStatusPending = "In Prüfung"

// Sale is a trade-in ("sell to us") request. Sales have their own lifecycle
// and share no storage with the catalog or the order log.
type Sale struct {
	ID        string  `json:"id" db:"id"`
	CreatedAt string  `json:"createdAt" db:"created_at"`
	Email     string  `json:"email" db:"email"`
	Device    string  `json:"device" db:"device"`
	Specs     string  `json:"specs,omitempty" db:"specs"`
	Price     float64 `json:"price" db:"price"`
	Status    string  `json:"status" db:"status"`
}
