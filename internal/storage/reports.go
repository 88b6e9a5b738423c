package storage

import (
	"context"
	"fmt"

	"reventa/internal/core"
)

// InventoryReport computes the per-product stock valuation view.
// Products with no purchase and no sale activity are excluded; rows are
// ordered by product code. Quantities and cent sums come straight from
// SQL; the derived average and valuation are filled by Valuate so the
// rounding rules live in one place.
func (r *Repository) InventoryReport(ctx context.Context) ([]core.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.code, p.name, p.category_id,
		       COALESCE(pu.total_qty, 0),
		       COALESCE(pu.sum_unit_cents, 0),
		       COALESCE(pu.purchase_count, 0),
		       COALESCE(sa.total_qty, 0)
		FROM products p
		LEFT JOIN (
		    SELECT product_id,
		           SUM(quantity)         AS total_qty,
		           SUM(unit_price_cents) AS sum_unit_cents,
		           COUNT(*)              AS purchase_count
		    FROM purchases
		    GROUP BY product_id
		) pu ON pu.product_id = p.id
		LEFT JOIN (
		    SELECT product_id, SUM(quantity) AS total_qty
		    FROM sales
		    GROUP BY product_id
		) sa ON sa.product_id = p.id
		WHERE COALESCE(pu.total_qty, 0) > 0 OR COALESCE(sa.total_qty, 0) > 0
		ORDER BY p.code`)
	if err != nil {
		return nil, fmt.Errorf("inventory report: %w", err)
	}
	defer rows.Close()

	var items []core.InventoryItem
	for rows.Next() {
		var (
			it            core.InventoryItem
			sumUnitCents  int64
			purchaseCount int64
		)
		err := rows.Scan(&it.ProductID, &it.ProductCode, &it.ProductName,
			&it.CategoryID, &it.TotalPurchased, &sumUnitCents,
			&purchaseCount, &it.TotalSold)
		if err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		it.Valuate(sumUnitCents, purchaseCount)
		items = append(items, it)
	}
	return items, rows.Err()
}

// CashFlowReport buckets investments, purchases, sales and expenses by
// calendar month (the YYYY-MM prefix of their date) and returns one row
// per month with activity, in ascending month order, with net balance
// and accumulated cash folded in. Rows whose date is shorter than the
// month prefix never reach a bucket. An empty store yields no rows and
// no error.
func (r *Repository) CashFlowReport(ctx context.Context) ([]core.CashFlowRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH months AS (
		    SELECT substr(investment_date, 1, 7) AS month FROM investments WHERE length(investment_date) >= 7
		    UNION
		    SELECT substr(purchase_date, 1, 7) FROM purchases WHERE length(purchase_date) >= 7
		    UNION
		    SELECT substr(sale_date, 1, 7) FROM sales WHERE length(sale_date) >= 7
		    UNION
		    SELECT substr(expense_date, 1, 7) FROM expenses WHERE length(expense_date) >= 7
		),
		inv AS (
		    SELECT substr(investment_date, 1, 7) AS month,
		           SUM(CASE WHEN investor = ?1 THEN amount_cents ELSE 0 END) AS giomar_cents,
		           SUM(CASE WHEN investor = ?2 THEN amount_cents ELSE 0 END) AS erick_cents,
		           SUM(amount_cents) AS total_cents
		    FROM investments
		    WHERE length(investment_date) >= 7
		    GROUP BY month
		),
		pur AS (
		    SELECT substr(purchase_date, 1, 7) AS month, SUM(total_cents) AS total_cents
		    FROM purchases
		    WHERE length(purchase_date) >= 7
		    GROUP BY month
		),
		sal AS (
		    SELECT substr(sale_date, 1, 7) AS month, SUM(total_cents) AS total_cents
		    FROM sales
		    WHERE length(sale_date) >= 7
		    GROUP BY month
		),
		exp AS (
		    SELECT substr(expense_date, 1, 7) AS month, SUM(amount_cents) AS total_cents
		    FROM expenses
		    WHERE length(expense_date) >= 7
		    GROUP BY month
		)
		SELECT m.month,
		       COALESCE(inv.giomar_cents, 0),
		       COALESCE(inv.erick_cents, 0),
		       COALESCE(inv.total_cents, 0),
		       COALESCE(pur.total_cents, 0),
		       COALESCE(sal.total_cents, 0),
		       COALESCE(exp.total_cents, 0)
		FROM months m
		LEFT JOIN inv ON inv.month = m.month
		LEFT JOIN pur ON pur.month = m.month
		LEFT JOIN sal ON sal.month = m.month
		LEFT JOIN exp ON exp.month = m.month
		ORDER BY m.month`,
		string(core.InvestorGiomar), string(core.InvestorErick))
	if err != nil {
		return nil, fmt.Errorf("cash flow report: %w", err)
	}
	defer rows.Close()

	var report []core.CashFlowRow
	for rows.Next() {
		var (
			row    core.CashFlowRow
			giomar int64
			erick  int64
			inv    int64
			pur    int64
			sal    int64
			exp    int64
		)
		if err := rows.Scan(&row.Month, &giomar, &erick, &inv, &pur, &sal, &exp); err != nil {
			return nil, fmt.Errorf("scan cash flow row: %w", err)
		}
		row.GiomarInvestment = core.Money{Cents: giomar}
		row.ErickInvestment = core.Money{Cents: erick}
		row.TotalInvestment = core.Money{Cents: inv}
		row.TotalPurchases = core.Money{Cents: pur}
		row.TotalSales = core.Money{Cents: sal}
		row.TotalExpenses = core.Money{Cents: exp}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return core.AccumulateCashFlow(report), nil
}
