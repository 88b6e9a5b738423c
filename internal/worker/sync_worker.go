// Package worker pushes recorded sales to the external sales ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reventa/internal/amqp"
	"reventa/internal/core"
	"reventa/internal/sheets"
	"reventa/internal/storage"
)

// SyncWorker consumes sale sync messages and appends ledger rows. A
// periodic pending scan backstops lost messages.
type SyncWorker struct {
	storage   *storage.Repository
	ledger    sheets.SaleLedger
	batchSize int
}

func NewSyncWorker(storage *storage.Repository, ledger sheets.SaleLedger, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sale sync message. The sale is
// reloaded from the store so the ledger always reflects the latest
// stored row, not the message's snapshot. A sale deleted since the
// message was queued is acknowledged and skipped.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SaleSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	sale, err := w.storage.GetSaleByID(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Sale no longer exists, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get sale from storage: %w", err)
	}

	return w.syncSale(ctx, sale)
}

// ProcessPendingSales syncs sales still flagged unsynced. This is a
// backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingSales(ctx context.Context) error {
	pending, err := w.storage.PendingSyncSales(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sales: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending sales", "count", len(pending))

	for i := range pending {
		if err := w.syncSale(ctx, &pending[i]); err != nil {
			slog.ErrorContext(ctx, "Failed to sync sale", "id", pending[i].ID, "error", err)
		}
	}
	return nil
}

// RunPendingScan processes pending sales on the given interval until
// the context is cancelled.
func (w *SyncWorker) RunPendingScan(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPendingSales(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending scan failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncSale(ctx context.Context, sale *core.Sale) error {
	entry := sheets.LedgerEntry{
		SaleID:    sale.ID,
		SaleDate:  sale.SaleDate,
		Quantity:  sale.Quantity,
		UnitPrice: sale.UnitPrice,
		Total:     sale.Total,
		BuyerName: sale.BuyerName,
	}
	if sale.Product != nil {
		entry.ProductCode = sale.Product.Code
		entry.ProductName = sale.Product.Name
	}

	ref, err := w.ledger.Append(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkSaleSyncError(ctx, sale.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", sale.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSaleSynced(ctx, sale.ID); err != nil {
		// The ledger write went through; only the flag update failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", sale.ID, "error", err)
	}

	slog.InfoContext(ctx, "Synced sale to ledger",
		"id", sale.ID,
		"ledger_ref", ref,
		"product_code", entry.ProductCode,
		"amount_cents", sale.Total.Cents)
	return nil
}
