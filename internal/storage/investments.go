package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reventa/internal/core"
)

const investmentColumns = `id, investment_date, description, investor, amount_cents, created_at, updated_at`

func scanInvestment(row interface{ Scan(...any) error }) (*core.Investment, error) {
	var (
		inv    core.Investment
		amount int64
	)
	err := row.Scan(&inv.ID, &inv.InvestmentDate, &inv.Description,
		&inv.Investor, &amount, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Amount = core.Money{Cents: amount}
	return &inv, nil
}

// ListInvestments returns all capital contributions, newest date first.
func (r *Repository) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments
		 ORDER BY investment_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var investments []core.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		investments = append(investments, *inv)
	}
	return investments, rows.Err()
}

func (r *Repository) GetInvestmentByID(ctx context.Context, id int64) (*core.Investment, error) {
	inv, err := scanInvestment(r.db.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get investment %d: %w", id, err)
	}
	return inv, nil
}

func (r *Repository) CreateInvestment(ctx context.Context, inv core.Investment) (*core.Investment, error) {
	inv.CreatedAt = now()
	inv.UpdatedAt = inv.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO investments
		    (investment_date, description, investor, amount_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.InvestmentDate, inv.Description, inv.Investor, inv.Amount.Cents,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create investment: %w", err)
	}
	if inv.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("investment insert id: %w", err)
	}
	return &inv, nil
}

// InvestmentUpdate carries the optional fields of a partial update.
type InvestmentUpdate struct {
	InvestmentDate *string
	Description    *string
	Investor       *core.Investor
	Amount         *core.Money
}

// UpdateInvestment applies a partial update. Updating a missing id is a
// no-op.
func (r *Repository) UpdateInvestment(ctx context.Context, id int64, upd InvestmentUpdate) error {
	var amountCents *int64
	if upd.Amount != nil {
		amountCents = &upd.Amount.Cents
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE investments SET
		    investment_date = COALESCE(?1, investment_date),
		    description     = COALESCE(?2, description),
		    investor        = COALESCE(?3, investor),
		    amount_cents    = COALESCE(?4, amount_cents),
		    updated_at      = ?5
		 WHERE id = ?6`,
		upd.InvestmentDate, upd.Description, upd.Investor, amountCents, now(), id)
	if err != nil {
		return fmt.Errorf("update investment %d: %w", id, err)
	}
	return nil
}

func (r *Repository) DeleteInvestment(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete investment %d: %w", id, err)
	}
	return nil
}
