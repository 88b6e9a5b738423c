package storage

import (
	"context"
	"database/sql"
	"fmt"

	"reventa/internal/core"
)

func scanSaleRow(rows *sql.Rows) (core.Sale, error) {
	var (
		s        core.Sale
		unit     int64
		total    int64
		refID    sql.NullInt64
		refCode  sql.NullString
		refName  sql.NullString
		refCatID sql.NullInt64
	)
	err := rows.Scan(&s.ID, &s.SaleDate, &s.ProductID, &s.Quantity,
		&unit, &total, &s.BuyerName, &s.BuyerEmail, &s.BuyerPhone,
		&s.CreatedAt, &s.UpdatedAt,
		&refID, &refCode, &refName, &refCatID)
	if err != nil {
		return s, err
	}
	s.UnitPrice = core.Money{Cents: unit}
	s.Total = core.Money{Cents: total}
	if refID.Valid {
		s.Product = &core.ProductRef{
			ID:         refID.Int64,
			Code:       refCode.String,
			Name:       refName.String,
			CategoryID: refCatID.Int64,
		}
	}
	return s, nil
}

const saleSelect = `
SELECT sa.id, sa.sale_date, sa.product_id, sa.quantity,
       sa.unit_price_cents, sa.total_cents,
       sa.buyer_name, sa.buyer_email, sa.buyer_phone,
       sa.created_at, sa.updated_at,
       pr.id, pr.code, pr.name, pr.category_id
FROM sales sa
LEFT JOIN products pr ON pr.id = sa.product_id`

// ListSales returns all sales, newest sale date first, with the joined
// product identity where the product still exists.
func (r *Repository) ListSales(ctx context.Context) ([]core.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		saleSelect+` ORDER BY sa.sale_date DESC, sa.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []core.Sale
	for rows.Next() {
		s, err := scanSaleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *Repository) GetSaleByID(ctx context.Context, id int64) (*core.Sale, error) {
	rows, err := r.db.QueryContext(ctx, saleSelect+` WHERE sa.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, core.ErrNotFound
	}
	s, err := scanSaleRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return &s, nil
}

// CreateSale inserts a sale, deriving the total from quantity and unit
// price. A caller-supplied total is ignored. New sales start unsynced.
func (r *Repository) CreateSale(ctx context.Context, s core.Sale) (*core.Sale, error) {
	s.Total = s.UnitPrice.MulQuantity(s.Quantity)
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	s.Product = nil

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sales
		    (sale_date, product_id, quantity, unit_price_cents, total_cents,
		     buyer_name, buyer_email, buyer_phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SaleDate, s.ProductID, s.Quantity, s.UnitPrice.Cents, s.Total.Cents,
		s.BuyerName, s.BuyerEmail, s.BuyerPhone, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("sale insert id: %w", err)
	}
	return &s, nil
}

// SaleUpdate carries the optional fields of a partial update; nil means
// keep the stored value.
type SaleUpdate struct {
	SaleDate   *string
	ProductID  *int64
	Quantity   *int64
	UnitPrice  *core.Money
	BuyerName  *string
	BuyerEmail *string
	BuyerPhone *string
}

// UpdateSale applies a partial update in a single statement, recomputing
// the total from whichever quantity and unit price end up stored. Any
// update marks the sale unsynced so the ledger row gets refreshed.
// Updating a missing id is a no-op.
func (r *Repository) UpdateSale(ctx context.Context, id int64, upd SaleUpdate) error {
	var unitCents *int64
	if upd.UnitPrice != nil {
		unitCents = &upd.UnitPrice.Cents
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE sales SET
		    sale_date        = COALESCE(?1, sale_date),
		    product_id       = COALESCE(?2, product_id),
		    quantity         = COALESCE(?3, quantity),
		    unit_price_cents = COALESCE(?4, unit_price_cents),
		    total_cents      = COALESCE(?3, quantity) * COALESCE(?4, unit_price_cents),
		    buyer_name       = COALESCE(?5, buyer_name),
		    buyer_email      = COALESCE(?6, buyer_email),
		    buyer_phone      = COALESCE(?7, buyer_phone),
		    synced           = 0,
		    sync_error       = 0,
		    updated_at       = ?8
		 WHERE id = ?9`,
		upd.SaleDate, upd.ProductID, upd.Quantity, unitCents,
		upd.BuyerName, upd.BuyerEmail, upd.BuyerPhone, now(), id)
	if err != nil {
		return fmt.Errorf("update sale %d: %w", id, err)
	}
	return nil
}

// DeleteSale removes a sale. Deleting a missing id is a no-op.
func (r *Repository) DeleteSale(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	return nil
}

// MarkSaleSynced records a successful ledger append.
func (r *Repository) MarkSaleSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sales SET synced = 1, sync_error = 0, updated_at = ? WHERE id = ?`,
		now(), id)
	if err != nil {
		return fmt.Errorf("mark sale %d synced: %w", id, err)
	}
	return nil
}

// MarkSaleSyncError flags a failed ledger append; the periodic scan
// will retry it.
func (r *Repository) MarkSaleSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sales SET sync_error = 1, updated_at = ? WHERE id = ?`,
		now(), id)
	if err != nil {
		return fmt.Errorf("mark sale %d sync error: %w", id, err)
	}
	return nil
}

// PendingSyncSales returns the oldest unsynced sales, capped at limit.
func (r *Repository) PendingSyncSales(ctx context.Context, limit int) ([]core.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		saleSelect+` WHERE sa.synced = 0 ORDER BY sa.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync sales: %w", err)
	}
	defer rows.Close()

	var sales []core.Sale
	for rows.Next() {
		s, err := scanSaleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
