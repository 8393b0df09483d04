package domain

// User carries credentials plus explicit optional profile fields. Orders and
// sales reference users only through a denormalized email snapshot.
type User struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Hash     string `db:"password_hash" json:"-"`
	Street   string `db:"street" json:"street,omitempty"`
	ZIP      string `db:"zip" json:"zip,omitempty"`
	City     string `db:"city" json:"city,omitempty"`
}
