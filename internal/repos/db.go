package repos

import (
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by lookups and status updates that target an
// unknown order, sale, product or user.
var ErrNotFound = errors.New("not found")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single writer. Also keeps :memory: databases on one shared
	// connection (each new connection would otherwise start empty).
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog and demo accounts if the DB is empty
	// (idempotent; safe to run every start).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Catalog: brand -> products -> per-unit inventory
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  brand TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand, position);

CREATE TABLE IF NOT EXISTS units(
  id TEXT PRIMARY KEY,               -- unique across the whole catalog
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  condition TEXT NOT NULL,
  storage TEXT,
  color TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_units_product ON units(product_id, position);

-- Order log (seq gives the newest-first listing contract)
CREATE TABLE IF NOT EXISTS orders(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL,
  status TEXT NOT NULL,
  shipped_date TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  billing_json TEXT NOT NULL,
  shipping_json TEXT NOT NULL,
  payment_method TEXT NOT NULL DEFAULT '',
  insurance INTEGER NOT NULL DEFAULT 0,
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  total NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email);

CREATE TABLE IF NOT EXISTS order_units(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  unit_id TEXT NOT NULL,
  brand TEXT NOT NULL,
  product TEXT NOT NULL,
  condition TEXT NOT NULL,
  storage TEXT,
  color TEXT,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, position)
);

-- Sale (trade-in) log, independent lifecycle
CREATE TABLE IF NOT EXISTS sales(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL,
  email TEXT NOT NULL,
  device TEXT NOT NULL,
  specs TEXT,
  price NUMERIC NOT NULL,
  status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_email ON sales(email);

-- Accounts
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  street TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,brand,name,description,position) VALUES
	  ('iphone-11','Apple','iPhone 11','Refurbished, battery over 85%',0),
	  ('iphone-se-2020','Apple','iPhone SE (2020)','Compact refurbished iPhone',1),
	  ('galaxy-s10','Samsung','Galaxy S10','Tested and cleaned',0),
	  ('pixel-6','Google','Pixel 6','Factory reset, unlocked',0)`)

	tx.MustExec(`INSERT INTO units(id,product_id,condition,storage,color,price,position) VALUES
	  ('1001','iphone-11','Sehr gut','64 GB','Schwarz',329.00,0),
	  ('1002','iphone-11','Gut','128 GB','Weiß',349.00,1),
	  ('1003','iphone-se-2020','Sehr gut','64 GB','Rot',229.00,0),
	  ('1004','galaxy-s10','Gut','128 GB','Prism Black',249.00,0),
	  ('1005','galaxy-s10','Akzeptabel','128 GB','Prism Green',209.00,1),
	  ('1006','pixel-6','Sehr gut','128 GB','Stormy Black',299.00,0)`)

	return tx.Commit()
}

// seedUsers ensures a demo account exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,username,email,password_hash,street,zip,city)
		VALUES('u-demo','demo','demo@reware.test',?, 'Hauptstraße 1','10115','Berlin')
		ON CONFLICT(username) DO NOTHING
	`, string(h))
	return err
}
