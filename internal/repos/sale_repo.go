package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"reware/internal/domain"
)

// SaleRepo is the trade-in log. Independent of the catalog and the order
// log; appends and status updates serialize through the single DB writer.
type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleCols = `id, created_at, email, device, COALESCE(specs,'') AS specs, price, status`

func (r *SaleRepo) Create(s domain.Sale) error {
	_, err := r.db.Exec(`
		INSERT INTO sales(id, created_at, email, device, specs, price, status)
		VALUES(?,?,?,?,?,?,?)
	`, s.ID, s.CreatedAt, s.Email, s.Device, s.Specs, s.Price, s.Status)
	return err
}

func (r *SaleRepo) ListAll() ([]domain.Sale, error) {
	var out []domain.Sale
	err := r.db.Select(&out, `SELECT `+saleCols+` FROM sales ORDER BY seq DESC`)
	return out, err
}

func (r *SaleRepo) FindByEmail(email string) ([]domain.Sale, error) {
	var out []domain.Sale
	err := r.db.Select(&out, `
		SELECT `+saleCols+` FROM sales WHERE LOWER(email)=LOWER(?) ORDER BY seq DESC
	`, email)
	return out, err
}

func (r *SaleRepo) Get(id string) (domain.Sale, error) {
	var s domain.Sale
	err := r.db.Get(&s, `SELECT `+saleCols+` FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, ErrNotFound
	}
	return s, err
}

func (r *SaleRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE sales SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
