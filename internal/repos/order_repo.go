package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"reware/internal/domain"
)

// OrderRepo is the order log. Listing order is newest-first; admin and
// customer views rely on that contract.
type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID            string  `db:"id"`
	CreatedAt     string  `db:"created_at"`
	Status        string  `db:"status"`
	ShippedDate   string  `db:"shipped_date"`
	Email         string  `db:"email"`
	BillingJSON   string  `db:"billing_json"`
	ShippingJSON  string  `db:"shipping_json"`
	PaymentMethod string  `db:"payment_method"`
	Insurance     bool    `db:"insurance"`
	Subtotal      float64 `db:"subtotal"`
	ShippingCost  float64 `db:"shipping_cost"`
	Total         float64 `db:"total"`
}

const orderCols = `id, created_at, status, shipped_date, email, billing_json,
	shipping_json, payment_method, insurance, subtotal, shipping_cost, total`

// CreateTx inserts a new order inside the caller's transaction, so the
// checkout engine commits the order and the catalog mutation as one unit.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o domain.Order) error {
	billing, err := json.Marshal(o.Billing)
	if err != nil {
		return err
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO orders(id, created_at, status, shipped_date, email, billing_json,
		  shipping_json, payment_method, insurance, subtotal, shipping_cost, total)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.CreatedAt, o.Status, o.ShippedDate, o.Email, string(billing),
		string(shipping), o.PaymentMethod, o.Insurance, o.Subtotal, o.ShippingCost, o.Total); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := tx.Exec(`
			INSERT INTO order_units(order_id, position, unit_id, brand, product, condition, storage, color, price)
			VALUES(?,?,?,?,?,?,?,?,?)
		`, o.ID, i, it.UnitID, it.Brand, it.Product, it.Condition, it.Storage, it.Color, it.Price); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	return r.list(`SELECT `+orderCols+` FROM orders ORDER BY seq DESC`, nil)
}

func (r *OrderRepo) FindByEmail(email string) ([]domain.Order, error) {
	return r.list(`SELECT `+orderCols+` FROM orders WHERE LOWER(email)=LOWER(?) ORDER BY seq DESC`, []any{email})
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	o, err := r.inflate(row)
	if err != nil {
		return domain.Order{}, err
	}
	items, err := r.itemsFor([]string{id})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[id]
	return o, nil
}

// UpdateStatus sets a new lifecycle status. Moving to Versendet stamps the
// shipped date once; later status changes keep the original stamp.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`
		UPDATE orders SET status = ?,
		  shipped_date = CASE WHEN ? = ? AND shipped_date = '' THEN ? ELSE shipped_date END
		WHERE id = ?
	`, status, status, domain.OrderStatusShipped, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) list(query string, args []any) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := r.itemsFor(ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := r.inflate(row)
		if err != nil {
			return nil, err
		}
		o.Items = items[row.ID]
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) itemsFor(orderIDs []string) (map[string][]domain.OrderItem, error) {
	out := make(map[string][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
		SELECT order_id, unit_id, brand, product, condition,
		       COALESCE(storage,'') AS storage, COALESCE(color,'') AS color, price
		FROM order_units WHERE order_id IN (?) ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		OrderID string `db:"order_id"`
		domain.OrderItem
	}
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OrderID] = append(out[row.OrderID], row.OrderItem)
	}
	return out, nil
}

func (r *OrderRepo) inflate(row orderRow) (domain.Order, error) {
	o := domain.Order{
		ID: row.ID, CreatedAt: row.CreatedAt, Status: row.Status,
		ShippedDate: row.ShippedDate, Email: row.Email,
		PaymentMethod: row.PaymentMethod, Insurance: row.Insurance,
		Subtotal: row.Subtotal, ShippingCost: row.ShippingCost, Total: row.Total,
	}
	if err := json.Unmarshal([]byte(row.BillingJSON), &o.Billing); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal([]byte(row.ShippingJSON), &o.Shipping); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
