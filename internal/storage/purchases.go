package storage

import (
	"context"
	"database/sql"
	"fmt"

	"reventa/internal/core"
)

// suggestedPriceExpr derives the 30% markup resale price from a cents
// column, rounded half-up to the cent, in integer arithmetic. It must
// agree with core.SuggestedResalePrice.
const suggestedPriceExpr = `(%s * 130 + 50) / 100`

func scanPurchaseRow(rows *sql.Rows) (core.Purchase, error) {
	var (
		p        core.Purchase
		unit     int64
		total    int64
		sugg     int64
		refID    sql.NullInt64
		refCode  sql.NullString
		refName  sql.NullString
		refCatID sql.NullInt64
	)
	err := rows.Scan(&p.ID, &p.PurchaseDate, &p.ProductID, &p.Quantity,
		&unit, &total, &sugg, &p.Status, &p.Detail, &p.CreatedAt, &p.UpdatedAt,
		&refID, &refCode, &refName, &refCatID)
	if err != nil {
		return p, err
	}
	p.UnitPrice = core.Money{Cents: unit}
	p.Total = core.Money{Cents: total}
	p.SuggestedPrice = core.Money{Cents: sugg}
	if refID.Valid {
		p.Product = &core.ProductRef{
			ID:         refID.Int64,
			Code:       refCode.String,
			Name:       refName.String,
			CategoryID: refCatID.Int64,
		}
	}
	return p, nil
}

const purchaseSelect = `
SELECT pu.id, pu.purchase_date, pu.product_id, pu.quantity,
       pu.unit_price_cents, pu.total_cents, pu.suggested_price_cents,
       pu.status, pu.detail, pu.created_at, pu.updated_at,
       pr.id, pr.code, pr.name, pr.category_id
FROM purchases pu
LEFT JOIN products pr ON pr.id = pu.product_id`

// ListPurchases returns all purchases, newest purchase date first, with
// the joined product identity where the product still exists.
func (r *Repository) ListPurchases(ctx context.Context) ([]core.Purchase, error) {
	rows, err := r.db.QueryContext(ctx,
		purchaseSelect+` ORDER BY pu.purchase_date DESC, pu.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []core.Purchase
	for rows.Next() {
		p, err := scanPurchaseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *Repository) GetPurchaseByID(ctx context.Context, id int64) (*core.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, purchaseSelect+` WHERE pu.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, core.ErrNotFound
	}
	p, err := scanPurchaseRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	return &p, nil
}

// CreatePurchase inserts a purchase, deriving the total and the
// suggested resale price from quantity and unit price. Derived values
// supplied by the caller are ignored.
func (r *Repository) CreatePurchase(ctx context.Context, p core.Purchase) (*core.Purchase, error) {
	p.Total = p.UnitPrice.MulQuantity(p.Quantity)
	p.SuggestedPrice = core.SuggestedResalePrice(p.UnitPrice)
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	p.Product = nil

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases
		    (purchase_date, product_id, quantity, unit_price_cents,
		     total_cents, suggested_price_cents, status, detail,
		     created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PurchaseDate, p.ProductID, p.Quantity, p.UnitPrice.Cents,
		p.Total.Cents, p.SuggestedPrice.Cents, p.Status, p.Detail,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("purchase insert id: %w", err)
	}
	return &p, nil
}

// PurchaseUpdate carries the optional fields of a partial update; nil
// means keep the stored value.
type PurchaseUpdate struct {
	PurchaseDate *string
	ProductID    *int64
	Quantity     *int64
	UnitPrice    *core.Money
	Status       *core.PurchaseStatus
	Detail       *string
}

// UpdatePurchase applies a partial update in a single statement. The
// total and suggested price are recomputed in the same statement from
// whichever quantity and unit price end up stored, so concurrent
// updates can never leave derived columns stale. Updating a missing id
// is a no-op.
func (r *Repository) UpdatePurchase(ctx context.Context, id int64, upd PurchaseUpdate) error {
	var unitCents *int64
	if upd.UnitPrice != nil {
		unitCents = &upd.UnitPrice.Cents
	}
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE purchases SET
		    purchase_date         = COALESCE(?1, purchase_date),
		    product_id            = COALESCE(?2, product_id),
		    quantity              = COALESCE(?3, quantity),
		    unit_price_cents      = COALESCE(?4, unit_price_cents),
		    total_cents           = COALESCE(?3, quantity) * COALESCE(?4, unit_price_cents),
		    suggested_price_cents = `+suggestedPriceExpr+`,
		    status                = COALESCE(?5, status),
		    detail                = COALESCE(?6, detail),
		    updated_at            = ?7
		 WHERE id = ?8`, `COALESCE(?4, unit_price_cents)`),
		upd.PurchaseDate, upd.ProductID, upd.Quantity, unitCents,
		upd.Status, upd.Detail, now(), id)
	if err != nil {
		return fmt.Errorf("update purchase %d: %w", id, err)
	}
	return nil
}

// DeletePurchase removes a purchase. Deleting a missing id is a no-op.
func (r *Repository) DeletePurchase(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete purchase %d: %w", id, err)
	}
	return nil
}
