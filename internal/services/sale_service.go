// Package services orchestrates writes that span the local store and
// the sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"reventa/internal/core"
	"reventa/internal/storage"
)

// SyncPublisher queues a sale for ledger sync. *amqp.Client satisfies
// it; tests use a stub.
type SyncPublisher interface {
	PublishSaleSync(ctx context.Context, id, version int64) error
}

// SaleService records sales locally and queues them for the external
// ledger. The local write is authoritative: a failed publish is logged
// and left to the worker's pending scan, never surfaced to the caller.
type SaleService struct {
	storage   *storage.Repository
	publisher SyncPublisher
}

// NewSaleService builds the service. publisher may be nil when the
// process runs without a broker; sales then rely on the pending scan.
func NewSaleService(storage *storage.Repository, publisher SyncPublisher) *SaleService {
	return &SaleService{
		storage:   storage,
		publisher: publisher,
	}
}

func (s *SaleService) CreateSale(ctx context.Context, sale core.Sale) (*core.Sale, error) {
	created, err := s.storage.CreateSale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("save sale: %w", err)
	}

	s.publishSync(ctx, created.ID, created.UpdatedAt.UnixMilli())
	return created, nil
}

func (s *SaleService) UpdateSale(ctx context.Context, id int64, upd storage.SaleUpdate) error {
	if err := s.storage.UpdateSale(ctx, id, upd); err != nil {
		return fmt.Errorf("update sale: %w", err)
	}

	// The update resets the synced flag; queue the refreshed row.
	if sale, err := s.storage.GetSaleByID(ctx, id); err == nil {
		s.publishSync(ctx, sale.ID, sale.UpdatedAt.UnixMilli())
	}
	return nil
}

func (s *SaleService) DeleteSale(ctx context.Context, id int64) error {
	return s.storage.DeleteSale(ctx, id)
}

func (s *SaleService) publishSync(ctx context.Context, id, version int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, relying on pending scan", "id", id)
		return
	}
	if err := s.publisher.PublishSaleSync(ctx, id, version); err != nil {
		// The sale is saved locally; the worker's pending scan will
		// pick it up.
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}
