package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"reware/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, username, email, password_hash, street, zip, city`

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users(id,username,email,password_hash,street,zip,city)
		VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Username, u.Email, u.Hash, u.Street, u.ZIP, u.City)
	return err
}

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	return r.one(`SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	return r.one(`SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	return r.one(`SELECT `+userCols+` FROM users WHERE id=?`, id)
}

func (r *UserRepo) one(query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
