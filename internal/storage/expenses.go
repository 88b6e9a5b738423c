package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reventa/internal/core"
)

const expenseColumns = `id, expense_date, description, category, amount_cents, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*core.Expense, error) {
	var (
		e      core.Expense
		amount int64
	)
	err := row.Scan(&e.ID, &e.ExpenseDate, &e.Description,
		&e.Category, &amount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount = core.Money{Cents: amount}
	return &e, nil
}

// ListExpenses returns all operating expenses, newest date first.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 ORDER BY expense_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (*core.Expense, error) {
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses
		    (expense_date, description, category, amount_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ExpenseDate, e.Description, e.Category, e.Amount.Cents,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("expense insert id: %w", err)
	}
	return &e, nil
}

// ExpenseUpdate carries the optional fields of a partial update.
type ExpenseUpdate struct {
	ExpenseDate *string
	Description *string
	Category    *core.ExpenseCategory
	Amount      *core.Money
}

// UpdateExpense applies a partial update. Updating a missing id is a
// no-op.
func (r *Repository) UpdateExpense(ctx context.Context, id int64, upd ExpenseUpdate) error {
	var amountCents *int64
	if upd.Amount != nil {
		amountCents = &upd.Amount.Cents
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET
		    expense_date = COALESCE(?1, expense_date),
		    description  = COALESCE(?2, description),
		    category     = COALESCE(?3, category),
		    amount_cents = COALESCE(?4, amount_cents),
		    updated_at   = ?5
		 WHERE id = ?6`,
		upd.ExpenseDate, upd.Description, upd.Category, amountCents, now(), id)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}
