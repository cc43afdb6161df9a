package repos

import (
	"ecommerceapi/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db sqlx.Ext }

func NewUserRepo(db sqlx.Ext) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.Get(r.db, &u, r.db.Rebind(`SELECT id,name,email,password_hash FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := sqlx.Get(r.db, &u, r.db.Rebind(`SELECT id,name,email,password_hash FROM users WHERE id=?`), id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns the generated id.
func (r *UserRepo) Create(name, email, hash string) (int64, error) {
	var id int64
	err := sqlx.Get(r.db, &id, r.db.Rebind(`
		INSERT INTO users(name,email,password_hash) VALUES(?,?,?)
		RETURNING id
	`), name, email, hash)
	return id, err
}
