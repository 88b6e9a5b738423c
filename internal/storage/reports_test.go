package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reventa/internal/core"
)

func money(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	require.NoError(t, err)
	return m
}

func addPurchase(t *testing.T, repo *Repository, productID int64, date string, qty int64, unit string) {
	t.Helper()
	_, err := repo.CreatePurchase(context.Background(), core.Purchase{
		PurchaseDate: date,
		ProductID:    productID,
		Quantity:     qty,
		UnitPrice:    money(t, unit),
		Status:       core.StatusReceived,
	})
	require.NoError(t, err)
}

func addSale(t *testing.T, repo *Repository, productID int64, date string, qty int64, unit string) {
	t.Helper()
	_, err := repo.CreateSale(context.Background(), core.Sale{
		SaleDate:  date,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: money(t, unit),
	})
	require.NoError(t, err)
}

func TestInventoryReport(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cat := mustCategory(t, repo, "Pokemon", "POK")
	charizard := mustProduct(t, repo, "Charizard Holo", cat.ID) // POK0000001
	pikachu := mustProduct(t, repo, "Pikachu Promo", cat.ID)    // POK0000002
	mustProduct(t, repo, "Untouched", cat.ID)                   // no activity, excluded

	// Two purchases at different unit prices: the average is the
	// unweighted mean of the line prices, not weighted by quantity.
	addPurchase(t, repo, charizard.ID, "2024-01-05", 10, "10.00")
	addPurchase(t, repo, charizard.ID, "2024-01-12", 1, "20.00")
	addSale(t, repo, charizard.ID, "2024-01-20", 4, "25.00")

	// Sold without any recorded purchase: stock goes negative and the
	// valuation stays zero.
	addSale(t, repo, pikachu.ID, "2024-01-22", 2, "8.00")

	items, err := repo.InventoryReport(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	chz := items[0]
	require.Equal(t, "POK0000001", chz.ProductCode)
	require.Equal(t, int64(11), chz.TotalPurchased)
	require.Equal(t, int64(4), chz.TotalSold)
	require.Equal(t, int64(7), chz.FinalStock)
	require.Equal(t, "15", chz.AvgUnitPrice.String())
	require.Equal(t, "105.00", chz.InventoryValue.String())

	pik := items[1]
	require.Equal(t, "POK0000002", pik.ProductCode)
	require.Equal(t, int64(0), pik.TotalPurchased)
	require.Equal(t, int64(2), pik.TotalSold)
	require.Equal(t, int64(-2), pik.FinalStock)
	require.True(t, pik.AvgUnitPrice.IsZero())
	require.Equal(t, "0.00", pik.InventoryValue.String())
}

func TestInventoryReportEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	items, err := repo.InventoryReport(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCashFlowReport(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cat := mustCategory(t, repo, "Pokemon", "POK")
	prod := mustProduct(t, repo, "Charizard Holo", cat.ID)

	_, err := repo.CreateInvestment(ctx, core.Investment{
		InvestmentDate: "2024-01-02",
		Description:    "Seed capital",
		Investor:       core.InvestorGiomar,
		Amount:         money(t, "1000.00"),
	})
	require.NoError(t, err)
	_, err = repo.CreateInvestment(ctx, core.Investment{
		InvestmentDate: "2024-01-15",
		Description:    "Seed capital",
		Investor:       core.InvestorErick,
		Amount:         money(t, "500.00"),
	})
	require.NoError(t, err)

	addPurchase(t, repo, prod.ID, "2024-01-10", 10, "20.00") // 200.00
	addSale(t, repo, prod.ID, "2024-02-05", 3, "30.00")      // 90.00

	_, err = repo.CreateExpense(ctx, core.Expense{
		ExpenseDate: "2024-02-12",
		Description: "Shipping supplies",
		Category:    core.ExpensePackaging,
		Amount:      money(t, "40.00"),
	})
	require.NoError(t, err)

	report, err := repo.CashFlowReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)

	jan := report[0]
	require.Equal(t, "2024-01", jan.Month)
	require.Equal(t, "1000.00", jan.GiomarInvestment.String())
	require.Equal(t, "500.00", jan.ErickInvestment.String())
	require.Equal(t, "1500.00", jan.TotalInvestment.String())
	require.Equal(t, "200.00", jan.TotalPurchases.String())
	require.Equal(t, "0.00", jan.TotalSales.String())
	require.Equal(t, "1300.00", jan.NetBalance.String())
	require.Equal(t, "1300.00", jan.AccumulatedCash.String())

	feb := report[1]
	require.Equal(t, "2024-02", feb.Month)
	require.Equal(t, "0.00", feb.TotalInvestment.String())
	require.Equal(t, "90.00", feb.TotalSales.String())
	require.Equal(t, "40.00", feb.TotalExpenses.String())
	require.Equal(t, "50.00", feb.NetBalance.String())
	// Accumulated cash is the running sum over every prior month.
	require.Equal(t, "1350.00", feb.AccumulatedCash.String())
}

func TestCashFlowReportSkipsShortDates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Rows written before date validation existed can carry truncated
	// dates; they must never form a bucket.
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO expenses (expense_date, description, category, amount_cents)
		 VALUES ('2024', 'legacy row', 'Other', 1000)`)
	require.NoError(t, err)

	_, err = repo.CreateExpense(ctx, core.Expense{
		ExpenseDate: "2024-03-01",
		Description: "Ads",
		Category:    core.ExpenseAdvertising,
		Amount:      money(t, "10.00"),
	})
	require.NoError(t, err)

	report, err := repo.CashFlowReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 1)
	require.Equal(t, "2024-03", report[0].Month)
	require.Equal(t, "10.00", report[0].TotalExpenses.String())
}

func TestCashFlowReportEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	report, err := repo.CashFlowReport(context.Background())
	require.NoError(t, err)
	require.Empty(t, report)
}
