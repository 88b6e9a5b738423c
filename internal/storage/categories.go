package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reventa/internal/core"
)

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCategoryByID returns core.ErrNotFound when the id is unknown.
func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code, created_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

// GetCategoryByCode returns core.ErrNotFound when the code is unknown.
func (r *Repository) GetCategoryByCode(ctx context.Context, code string) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code, created_at FROM categories WHERE code = ?`, code).
		Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", code, err)
	}
	return &c, nil
}

// CreateCategory inserts a category. Duplicate name or code surfaces as
// a constraint violation from the store.
func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (*core.Category, error) {
	c.CreatedAt = now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, code, created_at) VALUES (?, ?, ?)`,
		c.Name, c.Code, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category insert id: %w", err)
	}
	return &c, nil
}
