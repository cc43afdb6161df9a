package repos

import (
	"strings"

	"ecommerceapi/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db sqlx.Ext }

func NewProductRepo(db sqlx.Ext) *ProductRepo { return &ProductRepo{db: db} }

// search terms match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const productCols = `id, name, description, price, image_url, COALESCE(created_at,'') AS created_at`

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(r.db, &p, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	return p, err
}

// Search lists products newest first; an empty q matches everything.
func (r *ProductRepo) Search(q string, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\')`
		pat := "%" + likeEscaper.Replace(q) + "%"
		args = append(args, pat, pat)
	}
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := sqlx.Select(r.db, &out, r.db.Rebind(`
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, id DESC
	  LIMIT ? OFFSET ?`), args...)
	return out, err
}
