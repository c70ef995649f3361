package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Product represents a catalog entity. Price is stored as integer cents
// (exact fixed-point); the float conversion happens only at the JSON edge.
type Product struct {
	ID          string
	Title       string
	Description sql.NullString
	PriceCents  int64
	Stock       int64
	CreatedAt   string
	UpdatedAt   string
}

// ProductPatch carries a partial update. A nil field means "absent" and
// leaves the stored value untouched, which keeps present-but-null input from
// clobbering data by coincidence.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Stock       *int64
}

// CentsFromPrice converts a two-decimal price into integer cents, rounding
// half away from zero.
func CentsFromPrice(p float64) int64 {
	return int64(math.Round(p * 100))
}

// PriceFromCents converts stored cents back into the JSON price value.
func PriceFromCents(c int64) float64 {
	return float64(c) / 100
}

// ProductRepo encapsulates catalog queries. Products have no relation to the
// auth tables.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// Create inserts a product with a generated uuid. A follow-up SELECT
// populates the timestamp defaults so callers receive a full record.
func (r *ProductRepo) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.NewString()
	const q = "INSERT INTO products (id, title, description, price_cents, stock) VALUES (?,?,?,?,?)"
	if _, err := r.DB.ExecContext(ctx, q, p.ID, p.Title, p.Description, p.PriceCents, p.Stock); err != nil {
		return err
	}
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches a product by id. ErrProductNotFound when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	const q = "SELECT id, title, description, price_cents, stock, created_at, updated_at FROM products WHERE id=?"
	var p Product
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns products ordered by creation with offset/limit pagination.
func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]*Product, error) {
	const q = `SELECT id, title, description, price_cents, stock, created_at, updated_at
	           FROM products ORDER BY created_at, id LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p := new(Product)
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Patch applies the present fields of a partial update and returns the
// refreshed record. ErrProductNotFound when the id has no row.
func (r *ProductRepo) Patch(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	sets, args := buildPatch(patch)
	if len(sets) > 0 {
		q := "UPDATE products SET " + strings.Join(sets, ", ") + ", updated_at = CURRENT_TIMESTAMP WHERE id = ?"
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// buildPatch assembles SET clauses for the fields present in the patch.
// Split out from Patch so the absent/present semantics are testable without
// a database.
func buildPatch(patch ProductPatch) ([]string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Price != nil {
		sets = append(sets, "price_cents = ?")
		args = append(args, CentsFromPrice(*patch.Price))
	}
	if patch.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *patch.Stock)
	}
	return sets, args
}

// Delete removes a product. Returns false when the id had no row so the
// handler can answer 404 instead of treating it as an error.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
