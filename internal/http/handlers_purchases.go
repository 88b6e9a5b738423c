package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"reventa/internal/core"
	"reventa/internal/storage"
)

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.repo.ListPurchases(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(purchases))
}

func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	p, err := s.repo.GetPurchaseByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// purchaseEcho absorbs server-derived fields a client may echo back
// when resubmitting a fetched row. The values are discarded; the store
// recomputes them.
type purchaseEcho struct {
	ID             json.RawMessage `json:"id"`
	Total          json.RawMessage `json:"total"`
	SuggestedPrice json.RawMessage `json:"suggestedPrice"`
	Product        json.RawMessage `json:"product"`
	CreatedAt      json.RawMessage `json:"createdAt"`
	UpdatedAt      json.RawMessage `json:"updatedAt"`
}

type purchaseRequest struct {
	PurchaseDate string              `json:"purchaseDate"`
	ProductID    int64               `json:"productId"`
	Quantity     int64               `json:"quantity"`
	UnitPrice    core.Money          `json:"unitPrice"`
	Status       core.PurchaseStatus `json:"status"`
	Detail       string              `json:"detail"`

	purchaseEcho
}

// handleCreatePurchase records a purchase. The total and the suggested
// resale price are always derived server-side from quantity and unit
// price.
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		req.Status = core.StatusPending
	}

	purchase := core.Purchase{
		PurchaseDate: strings.TrimSpace(req.PurchaseDate),
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Status:       req.Status,
		Detail:       strings.TrimSpace(req.Detail),
	}
	if err := purchase.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if _, err := s.repo.GetProductByID(r.Context(), req.ProductID); err != nil {
		writeStoreError(w, r, err)
		return
	}

	created, err := s.repo.CreatePurchase(r.Context(), purchase)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, created)
}

type purchasePatch struct {
	PurchaseDate *string              `json:"purchaseDate"`
	ProductID    *int64               `json:"productId"`
	Quantity     *int64               `json:"quantity"`
	UnitPrice    *core.Money          `json:"unitPrice"`
	Status       *core.PurchaseStatus `json:"status"`
	Detail       *string              `json:"detail"`

	purchaseEcho
}

func (p purchasePatch) validate() error {
	if p.PurchaseDate != nil {
		if err := core.ValidateDate(*p.PurchaseDate); err != nil {
			return err
		}
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return core.ErrInvalidQuantity
	}
	if p.UnitPrice != nil && p.UnitPrice.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	if p.Status != nil && !p.Status.Valid() {
		return core.ErrInvalidStatus
	}
	return nil
}

// handleUpdatePurchase applies a partial update; omitted fields keep
// their stored values and derived columns are recomputed atomically in
// the store.
func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	var req purchasePatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.ProductID != nil {
		if _, err := s.repo.GetProductByID(r.Context(), *req.ProductID); err != nil {
			writeStoreError(w, r, err)
			return
		}
	}
	if _, err := s.repo.GetPurchaseByID(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := s.repo.UpdatePurchase(r.Context(), id, storage.PurchaseUpdate{
		PurchaseDate: req.PurchaseDate,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Status:       req.Status,
		Detail:       req.Detail,
	}); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()

	updated, err := s.repo.GetPurchaseByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	if err := s.repo.DeletePurchase(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
