package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reventa/internal/core"
)

const productColumns = `id, code, name, category_id, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*core.Product, error) {
	var p core.Product
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns the whole catalog ordered by code.
func (r *Repository) ListProducts(ctx context.Context) ([]core.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY code`)
}

// ListProductsByCategory returns a category's products ordered by code.
func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID int64) ([]core.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY code`, categoryID)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]core.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *Repository) GetProductByID(ctx context.Context, id int64) (*core.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *Repository) GetProductByCode(ctx context.Context, code string) (*core.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", code, err)
	}
	return p, nil
}

// CreateProduct allocates the next sequential code for the category and
// inserts the product inside one transaction, closing the window where
// two concurrent creations could read the same maximum. The unique
// index on code remains the final guard: a lost race surfaces as a
// constraint violation on commit.
func (r *Repository) CreateProduct(ctx context.Context, name string, categoryID int64) (*core.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin product create: %w", err)
	}
	defer tx.Rollback()

	var prefix string
	err = tx.QueryRowContext(ctx,
		`SELECT code FROM categories WHERE id = ?`, categoryID).Scan(&prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", categoryID, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("category prefix: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT code FROM products WHERE category_id = ?`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("existing codes: %w", err)
	}
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	p := core.Product{
		Code:       core.NextProductCode(prefix, codes),
		Name:       name,
		CategoryID: categoryID,
		CreatedAt:  now(),
	}
	p.UpdatedAt = p.CreatedAt

	res, err := tx.ExecContext(ctx,
		`INSERT INTO products (code, name, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("product insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product create: %w", err)
	}
	return &p, nil
}

// ProductUpdate carries the optional fields of a partial update. The
// code is immutable and never part of an update.
type ProductUpdate struct {
	Name       *string
	CategoryID *int64
}

// UpdateProduct applies a partial update. Updating a missing id is a
// no-op, not an error.
func (r *Repository) UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET
		    name        = COALESCE(?1, name),
		    category_id = COALESCE(?2, category_id),
		    updated_at  = ?3
		 WHERE id = ?4`,
		upd.Name, upd.CategoryID, now(), id)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	return nil
}

// DeleteProduct removes a product from the catalog. Purchase and sale
// history referencing it is deliberately left in place (orphaned rows
// stay queryable by id but drop out of joined views).
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}
