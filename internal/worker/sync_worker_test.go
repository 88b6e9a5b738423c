package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reventa/internal/amqp"
	"reventa/internal/core"
	"reventa/internal/sheets/memory"
	"reventa/internal/storage"
)

func newWorkerFixture(t *testing.T) (*SyncWorker, *storage.Repository, *memory.Ledger) {
	t.Helper()
	repo, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ledger := memory.New()
	return NewSyncWorker(repo, ledger, 10), repo, ledger
}

func recordSale(t *testing.T, repo *storage.Repository) *core.Sale {
	t.Helper()
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, core.Category{Name: "Pokemon", Code: "POK"})
	require.NoError(t, err)
	prod, err := repo.CreateProduct(ctx, "Charizard Holo", cat.ID)
	require.NoError(t, err)

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
	return sale
}

func TestHandleSyncMessage(t *testing.T) {
	w, repo, ledger := newWorkerFixture(t)
	ctx := context.Background()
	sale := recordSale(t, repo)

	err := w.HandleSyncMessage(ctx, amqp.NewSaleSyncMessage(sale.ID, 1))
	require.NoError(t, err)

	entries := ledger.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, sale.ID, entries[0].SaleID)
	require.Equal(t, "POK0000001", entries[0].ProductCode)
	require.Equal(t, "25.00", entries[0].Total.String())

	pending, err := repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestHandleSyncMessageDeletedSale(t *testing.T) {
	w, repo, ledger := newWorkerFixture(t)
	ctx := context.Background()
	sale := recordSale(t, repo)
	require.NoError(t, repo.DeleteSale(ctx, sale.ID))

	// A message for a deleted sale is acknowledged, not retried.
	err := w.HandleSyncMessage(ctx, amqp.NewSaleSyncMessage(sale.ID, 1))
	require.NoError(t, err)
	require.Empty(t, ledger.Entries())
}

func TestHandleSyncMessageLedgerFailure(t *testing.T) {
	w, repo, ledger := newWorkerFixture(t)
	ctx := context.Background()
	sale := recordSale(t, repo)

	ledger.FailWith = errors.New("ledger unavailable")
	err := w.HandleSyncMessage(ctx, amqp.NewSaleSyncMessage(sale.ID, 1))
	require.Error(t, err)

	// The sale stays queued for the pending scan.
	pending, err := repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Once the ledger recovers, the scan drains the backlog.
	ledger.FailWith = nil
	require.NoError(t, w.ProcessPendingSales(ctx))
	require.Len(t, ledger.Entries(), 1)

	pending, err = repo.PendingSyncSales(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestProcessPendingSalesEmpty(t *testing.T) {
	w, _, ledger := newWorkerFixture(t)
	require.NoError(t, w.ProcessPendingSales(context.Background()))
	require.Empty(t, ledger.Entries())
}
