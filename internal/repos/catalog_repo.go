package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"reware/internal/domain"
)

// CatalogRepo is the store of record for the brand -> products -> units
// catalog. All mutating access goes through Mutate, which serializes
// writers: a checkout can never interleave with an admin edit or with a
// second checkout.
type CatalogRepo struct {
	db *sqlx.DB
	mu sync.Mutex
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// Mutate runs fn inside the catalog lock and a transaction. Anything fn
// writes through tx (including rows in other stores, such as a new order)
// commits atomically with the catalog mutation.
func (r *CatalogRepo) Mutate(fn func(tx *sqlx.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type productRow struct {
	ID          string `db:"id"`
	Brand       string `db:"brand"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

type unitRow struct {
	ID        string  `db:"id"`
	ProductID string  `db:"product_id"`
	Condition string  `db:"condition"`
	Storage   string  `db:"storage"`
	Color     string  `db:"color"`
	Price     float64 `db:"price"`
}

// Snapshot returns the full catalog document, with brand, product and unit
// ordering preserved.
func (r *CatalogRepo) Snapshot() (domain.Catalog, error) {
	var prods []productRow
	if err := r.db.Select(&prods, `
		SELECT id, brand, name, COALESCE(description,'') AS description
		FROM products ORDER BY brand, position
	`); err != nil {
		return nil, err
	}

	var units []unitRow
	if err := r.db.Select(&units, `
		SELECT id, product_id, condition, COALESCE(storage,'') AS storage,
		       COALESCE(color,'') AS color, price
		FROM units ORDER BY product_id, position
	`); err != nil {
		return nil, err
	}

	byProduct := make(map[string][]domain.Unit, len(prods))
	for _, u := range units {
		byProduct[u.ProductID] = append(byProduct[u.ProductID], domain.Unit{
			ID: u.ID, Condition: u.Condition, Storage: u.Storage, Color: u.Color, Price: u.Price,
		})
	}

	cat := domain.Catalog{}
	for _, p := range prods {
		us := byProduct[p.ID]
		if us == nil {
			us = []domain.Unit{}
		}
		cat[p.Brand] = append(cat[p.Brand], domain.Product{
			ID: p.ID, Name: p.Name, Description: p.Description, Units: us,
		})
	}
	return cat, nil
}

// Replace swaps the whole catalog document (admin bulk edit). Duplicate
// unit ids anywhere in the document fail the transaction and leave the
// previous catalog untouched.
func (r *CatalogRepo) Replace(cat domain.Catalog) error {
	return r.Mutate(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`DELETE FROM units`); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM products`); err != nil {
			return err
		}
		for brand, prods := range cat {
			for pi, p := range prods {
				if _, err := tx.Exec(`
					INSERT INTO products(id,brand,name,description,position)
					VALUES(?,?,?,?,?)
				`, p.ID, brand, p.Name, p.Description, pi); err != nil {
					return fmt.Errorf("product %s: %w", p.ID, err)
				}
				for ui, u := range p.Units {
					if _, err := tx.Exec(`
						INSERT INTO units(id,product_id,condition,storage,color,price,position)
						VALUES(?,?,?,?,?,?,?)
					`, u.ID, p.ID, u.Condition, u.Storage, u.Color, u.Price, ui); err != nil {
						return fmt.Errorf("unit %s: %w", u.ID, err)
					}
				}
			}
		}
		return nil
	})
}

// Restock appends a unit to an existing product's inventory. This is the
// only path besides Replace that brings a unit id back into the catalog.
func (r *CatalogRepo) Restock(productID string, u domain.Unit) error {
	return r.Mutate(func(tx *sqlx.Tx) error {
		var n int
		if err := tx.Get(&n, `SELECT COUNT(*) FROM products WHERE id = ?`, productID); err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err := tx.Exec(`
			INSERT INTO units(id,product_id,condition,storage,color,price,position)
			VALUES(?,?,?,?,?,?,(SELECT COALESCE(MAX(position),-1)+1 FROM units WHERE product_id = ?))
		`, u.ID, productID, u.Condition, u.Storage, u.Color, u.Price, productID)
		return err
	})
}

// UnitTx looks a unit up by id anywhere in the catalog and returns it as an
// order snapshot. Returns ErrNotFound if the unit is not on the shelf.
func (r *CatalogRepo) UnitTx(tx *sqlx.Tx, unitID string) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := tx.Get(&it, `
		SELECT u.id AS unit_id, p.brand, p.name AS product, u.condition,
		       COALESCE(u.storage,'') AS storage, COALESCE(u.color,'') AS color, u.price
		FROM units u JOIN products p ON p.id = u.product_id
		WHERE u.id = ?
	`, unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderItem{}, ErrNotFound
	}
	return it, err
}

// RemoveUnitTx deletes a sold unit. Zero rows affected means a racing
// writer already took it.
func (r *CatalogRepo) RemoveUnitTx(tx *sqlx.Tx, unitID string) error {
	res, err := tx.Exec(`DELETE FROM units WHERE id = ?`, unitID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
