package http

import (
	"log/slog"
	"net/http"
)

const (
	inventoryCacheKey = "inventory"
	cashflowCacheKey  = "cashflow"
)

// handleInventory returns the stock valuation view, cached briefly
// between writes.
func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	if items, ok := s.inventoryCache.Get(inventoryCacheKey); ok {
		slog.DebugContext(r.Context(), "Inventory cache hit")
		writeJSON(w, http.StatusOK, listOrEmpty(items))
		return
	}

	items, err := s.repo.InventoryReport(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.inventoryCache.Set(inventoryCacheKey, items)
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

// handleCashFlow returns the monthly cash-flow view in ascending month
// order.
func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	if rows, ok := s.cashflowCache.Get(cashflowCacheKey); ok {
		slog.DebugContext(r.Context(), "Cash flow cache hit")
		writeJSON(w, http.StatusOK, listOrEmpty(rows))
		return
	}

	rows, err := s.repo.CashFlowReport(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.cashflowCache.Set(cashflowCacheKey, rows)
	writeJSON(w, http.StatusOK, listOrEmpty(rows))
}
