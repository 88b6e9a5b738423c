package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"reventa/internal/core"
	"reventa/internal/storage"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.repo.ListSales(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(sales))
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := s.repo.GetSaleByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// saleEcho absorbs server-derived fields a client may echo back when
// resubmitting a fetched row. The values are discarded; the store
// recomputes them.
type saleEcho struct {
	ID        json.RawMessage `json:"id"`
	Total     json.RawMessage `json:"total"`
	Product   json.RawMessage `json:"product"`
	CreatedAt json.RawMessage `json:"createdAt"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
}

type saleRequest struct {
	SaleDate   string     `json:"saleDate"`
	ProductID  int64      `json:"productId"`
	Quantity   int64      `json:"quantity"`
	UnitPrice  core.Money `json:"unitPrice"`
	BuyerName  string     `json:"buyerName"`
	BuyerEmail string     `json:"buyerEmail"`
	BuyerPhone string     `json:"buyerPhone"`

	saleEcho
}

// handleCreateSale records a sale through the sale service, which also
// queues the ledger sync. The total is derived server-side.
func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale := core.Sale{
		SaleDate:   strings.TrimSpace(req.SaleDate),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		BuyerName:  strings.TrimSpace(req.BuyerName),
		BuyerEmail: strings.TrimSpace(req.BuyerEmail),
		BuyerPhone: strings.TrimSpace(req.BuyerPhone),
	}
	if err := sale.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if _, err := s.repo.GetProductByID(r.Context(), req.ProductID); err != nil {
		writeStoreError(w, r, err)
		return
	}

	created, err := s.sales.CreateSale(r.Context(), sale)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, created)
}

type salePatch struct {
	SaleDate   *string     `json:"saleDate"`
	ProductID  *int64      `json:"productId"`
	Quantity   *int64      `json:"quantity"`
	UnitPrice  *core.Money `json:"unitPrice"`
	BuyerName  *string     `json:"buyerName"`
	BuyerEmail *string     `json:"buyerEmail"`
	BuyerPhone *string     `json:"buyerPhone"`

	saleEcho
}

func (p salePatch) validate() error {
	if p.SaleDate != nil {
		if err := core.ValidateDate(*p.SaleDate); err != nil {
			return err
		}
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return core.ErrInvalidQuantity
	}
	if p.UnitPrice != nil && p.UnitPrice.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	return nil
}

func (s *Server) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var req salePatch
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
	if _, err := s.repo.GetSaleByID(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := s.sales.UpdateSale(r.Context(), id, storage.SaleUpdate{
		SaleDate:   req.SaleDate,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: req.BuyerPhone,
	}); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()

	updated, err := s.repo.GetSaleByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := s.sales.DeleteSale(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
