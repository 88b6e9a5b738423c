package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reventa/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCategory(t *testing.T, repo *Repository, name, code string) *core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), core.Category{Name: name, Code: code})
	require.NoError(t, err)
	return c
}

func mustProduct(t *testing.T, repo *Repository, name string, categoryID int64) *core.Product {
	t.Helper()
	p, err := repo.CreateProduct(context.Background(), name, categoryID)
	require.NoError(t, err)
	return p
}

func TestCategoryCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCategory(t, repo, "Pokemon", "POK")
	require.NotZero(t, created.ID)

	got, err := repo.GetCategoryByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Pokemon", got.Name)

	byCode, err := repo.GetCategoryByCode(ctx, "POK")
	require.NoError(t, err)
	require.Equal(t, created.ID, byCode.ID)

	_, err = repo.GetCategoryByID(ctx, 9999)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.CreateCategory(ctx, core.Category{Name: "Duplicate", Code: "POK"})
	require.Error(t, err)

	mustCategory(t, repo, "Dragon Ball", "DBZ")
	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Equal(t, "Dragon Ball", cats[0].Name)
	require.Equal(t, "Pokemon", cats[1].Name)
}

func TestProductCodeSequence(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pok := mustCategory(t, repo, "Pokemon", "POK")
	dbz := mustCategory(t, repo, "Dragon Ball", "DBZ")

	p1 := mustProduct(t, repo, "Charizard Holo", pok.ID)
	p2 := mustProduct(t, repo, "Pikachu Promo", pok.ID)
	require.Equal(t, "POK0000001", p1.Code)
	require.Equal(t, "POK0000002", p2.Code)

	// Each category keeps its own counter.
	d1 := mustProduct(t, repo, "Goku Figure", dbz.ID)
	require.Equal(t, "DBZ0000001", d1.Code)

	// Deleting the head of a sequence does not free its number.
	require.NoError(t, repo.DeleteProduct(ctx, p2.ID))
	p3 := mustProduct(t, repo, "Mewtwo Holo", pok.ID)
	require.Equal(t, "POK0000003", p3.Code)

	byCode, err := repo.GetProductByCode(ctx, "POK0000003")
	require.NoError(t, err)
	require.Equal(t, p3.ID, byCode.ID)

	pokProducts, err := repo.ListProductsByCategory(ctx, pok.ID)
	require.NoError(t, err)
	require.Len(t, pokProducts, 2)
	require.Equal(t, "POK0000001", pokProducts[0].Code)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateProduct(context.Background(), "Orphan", 42)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestPurchaseDerivedFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cat := mustCategory(t, repo, "Pokemon", "POK")
	prod := mustProduct(t, repo, "Charizard Holo", cat.ID)

	unit, err := core.ParseMoney("3.33")
	require.NoError(t, err)

	created, err := repo.CreatePurchase(ctx, core.Purchase{
		PurchaseDate: "2024-03-10",
		ProductID:    prod.ID,
		Quantity:     10,
		UnitPrice:    unit,
		// Client-supplied derived values must be ignored.
		Total:          core.Money{Cents: 1},
		SuggestedPrice: core.Money{Cents: 1},
		Status:         core.StatusPending,
	})
	require.NoError(t, err)
	require.Equal(t, "33.30", created.Total.String())
	require.Equal(t, "4.33", created.SuggestedPrice.String())

	// A partial update of the quantity alone recomputes the total
	// against the stored unit price.
	qty := int64(4)
	require.NoError(t, repo.UpdatePurchase(ctx, created.ID, PurchaseUpdate{Quantity: &qty}))

	got, err := repo.GetPurchaseByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), got.Quantity)
	require.Equal(t, "13.32", got.Total.String())
	require.Equal(t, "4.33", got.SuggestedPrice.String())
	require.Equal(t, core.StatusPending, got.Status)

	// Updating the unit price refreshes both derived columns.
	newUnit, err := core.ParseMoney("5.00")
	require.NoError(t, err)
	status := core.StatusReceived
	require.NoError(t, repo.UpdatePurchase(ctx, created.ID, PurchaseUpdate{
		UnitPrice: &newUnit,
		Status:    &status,
	}))

	got, err = repo.GetPurchaseByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "20.00", got.Total.String())
	require.Equal(t, "6.50", got.SuggestedPrice.String())
	require.Equal(t, core.StatusReceived, got.Status)

	// Missing ids: get fails, update and delete are no-ops.
	_, err = repo.GetPurchaseByID(ctx, 9999)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, repo.UpdatePurchase(ctx, 9999, PurchaseUpdate{Quantity: &qty}))
	require.NoError(t, repo.DeletePurchase(ctx, 9999))
}

func TestSaleDerivedTotalAndSyncFlags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cat := mustCategory(t, repo, "Pokemon", "POK")
	prod := mustProduct(t, repo, "Charizard Holo", cat.ID)

	unit, err := core.ParseMoney("12.50")
	require.NoError(t, err)
	sale, err := repo.CreateSale(ctx, core.Sale{
		SaleDate:  "2024-03-15",
		ProductID: prod.ID,
		Quantity:  2,
		UnitPrice: unit,
		BuyerName: "Ana",
	})
	require.NoError(t, err)
	require.Equal(t, "25.00", sale.Total.String())

	pending, err := repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, sale.ID, pending[0].ID)

	require.NoError(t, repo.MarkSaleSynced(ctx, sale.ID))
	pending, err = repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	// Editing a synced sale queues it for sync again.
	qty := int64(3)
	require.NoError(t, repo.UpdateSale(ctx, sale.ID, SaleUpdate{Quantity: &qty}))
	got, err := repo.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Equal(t, "37.50", got.Total.String())

	pending, err = repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestDeleteProductKeepsHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cat := mustCategory(t, repo, "Pokemon", "POK")
	prod := mustProduct(t, repo, "Charizard Holo", cat.ID)

	unit, err := core.ParseMoney("10.00")
	require.NoError(t, err)
	purchase, err := repo.CreatePurchase(ctx, core.Purchase{
		PurchaseDate: "2024-01-05",
		ProductID:    prod.ID,
		Quantity:     3,
		UnitPrice:    unit,
		Status:       core.StatusReceived,
	})
	require.NoError(t, err)
	sale, err := repo.CreateSale(ctx, core.Sale{
		SaleDate:  "2024-01-20",
		ProductID: prod.ID,
		Quantity:  1,
		UnitPrice: unit,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProduct(ctx, prod.ID))

	_, err = repo.GetProductByID(ctx, prod.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	// History survives the delete; the joined product ref is gone.
	gotPurchase, err := repo.GetPurchaseByID(ctx, purchase.ID)
	require.NoError(t, err)
	require.Equal(t, prod.ID, gotPurchase.ProductID)
	require.Nil(t, gotPurchase.Product)

	gotSale, err := repo.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Nil(t, gotSale.Product)

	purchases, err := repo.ListPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
}

func TestInvestmentAndExpenseCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	amount, err := core.ParseMoney("500.00")
	require.NoError(t, err)
	inv, err := repo.CreateInvestment(ctx, core.Investment{
		InvestmentDate: "2024-02-01",
		Description:    "Initial capital",
		Investor:       core.InvestorGiomar,
		Amount:         amount,
	})
	require.NoError(t, err)

	newAmount, err := core.ParseMoney("750.00")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateInvestment(ctx, inv.ID, InvestmentUpdate{Amount: &newAmount}))
	got, err := repo.GetInvestmentByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "750.00", got.Amount.String())
	require.Equal(t, core.InvestorGiomar, got.Investor)

	require.NoError(t, repo.DeleteInvestment(ctx, inv.ID))
	_, err = repo.GetInvestmentByID(ctx, inv.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	expAmount, err := core.ParseMoney("19.90")
	require.NoError(t, err)
	exp, err := repo.CreateExpense(ctx, core.Expense{
		ExpenseDate: "2024-02-10",
		Description: "Bubble mailers",
		Category:    core.ExpensePackaging,
		Amount:      expAmount,
	})
	require.NoError(t, err)

	newCat := core.ExpenseTransport
	require.NoError(t, repo.UpdateExpense(ctx, exp.ID, ExpenseUpdate{Category: &newCat}))
	gotExp, err := repo.GetExpenseByID(ctx, exp.ID)
	require.NoError(t, err)
	require.Equal(t, core.ExpenseTransport, gotExp.Category)
	require.Equal(t, "19.90", gotExp.Amount.String())

	expenses, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
}

func TestUpsertUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u, err := repo.UpsertUser(ctx, core.User{
		OpenID: "oidc|abc123",
		Name:   "Giomar",
		Email:  "giomar@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "user", u.Role)

	again, err := repo.UpsertUser(ctx, core.User{
		OpenID: "oidc|abc123",
		Name:   "Giomar R.",
		Email:  "giomar@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, "Giomar R.", again.Name)

	_, err = repo.GetUserByOpenID(ctx, "nobody")
	require.True(t, errors.Is(err, core.ErrNotFound))
}
