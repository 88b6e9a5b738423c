package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reventa/internal/core"
	"reventa/internal/storage"
)

type stubPublisher struct {
	published []int64
	failWith  error
}

func (p *stubPublisher) PublishSaleSync(_ context.Context, id, _ int64) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, id)
	return nil
}

func newServiceFixture(t *testing.T) (*storage.Repository, int64) {
	t.Helper()
	ctx := context.Background()
	repo, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cat, err := repo.CreateCategory(ctx, core.Category{Name: "Pokemon", Code: "POK"})
	require.NoError(t, err)
	prod, err := repo.CreateProduct(ctx, "Charizard Holo", cat.ID)
	require.NoError(t, err)
	return repo, prod.ID
}

func saleFor(t *testing.T, productID int64) core.Sale {
	t.Helper()
	unit, err := core.ParseMoney("12.50")
	require.NoError(t, err)
	return core.Sale{
		SaleDate:  "2024-03-15",
		ProductID: productID,
		Quantity:  2,
		UnitPrice: unit,
	}
}

func TestCreateSalePublishesSync(t *testing.T) {
	repo, productID := newServiceFixture(t)
	pub := &stubPublisher{}
	svc := NewSaleService(repo, pub)

	created, err := svc.CreateSale(context.Background(), saleFor(t, productID))
	require.NoError(t, err)
	require.Equal(t, "25.00", created.Total.String())
	require.Equal(t, []int64{created.ID}, pub.published)
}

func TestCreateSaleSurvivesPublishFailure(t *testing.T) {
	repo, productID := newServiceFixture(t)
	pub := &stubPublisher{failWith: errors.New("broker down")}
	svc := NewSaleService(repo, pub)
	ctx := context.Background()

	created, err := svc.CreateSale(ctx, saleFor(t, productID))
	require.NoError(t, err)

	// The sale is stored and waits for the pending scan.
	pending, err := repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, created.ID, pending[0].ID)
}

func TestCreateSaleWithoutPublisher(t *testing.T) {
	repo, productID := newServiceFixture(t)
	svc := NewSaleService(repo, nil)

	_, err := svc.CreateSale(context.Background(), saleFor(t, productID))
	require.NoError(t, err)
}

func TestUpdateSaleRepublishes(t *testing.T) {
	repo, productID := newServiceFixture(t)
	pub := &stubPublisher{}
	svc := NewSaleService(repo, pub)
	ctx := context.Background()

	created, err := svc.CreateSale(ctx, saleFor(t, productID))
	require.NoError(t, err)
	require.NoError(t, repo.MarkSaleSynced(ctx, created.ID))

	qty := int64(5)
	require.NoError(t, svc.UpdateSale(ctx, created.ID, storage.SaleUpdate{Quantity: &qty}))
	require.Equal(t, []int64{created.ID, created.ID}, pub.published)

	got, err := repo.GetSaleByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "62.50", got.Total.String())
}

func TestDeleteSale(t *testing.T) {
	repo, productID := newServiceFixture(t)
	svc := NewSaleService(repo, &stubPublisher{})
	ctx := context.Background()

	created, err := svc.CreateSale(ctx, saleFor(t, productID))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSale(ctx, created.ID))

	_, err = repo.GetSaleByID(ctx, created.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}
