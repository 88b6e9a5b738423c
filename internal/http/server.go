// Package http exposes the JSON API and the embedded dashboard shell.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"reventa/internal/cache"
	"reventa/internal/core"
	"reventa/internal/services"
	"reventa/internal/storage"
	appweb "reventa/web"
)

const reportCacheTTL = 30 * time.Second

// Server wires the store, the sale service and the report caches into
// an http.Server with all routes registered.
type Server struct {
	http.Server
	repo      *storage.Repository
	sales     *services.SaleService
	sessions  *sessionManager
	templates *template.Template

	rateLimiter *rateLimiter

	// The two report queries are the expensive endpoints; dashboards
	// poll them. Cached briefly, invalidated on every write.
	inventoryCache *cache.LRU[[]core.InventoryItem]
	cashflowCache  *cache.LRU[[]core.CashFlowRow]
	cacheMgr       *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// server.
func NewServer(addr string, repo *storage.Repository, sales *services.SaleService, sessionSecret string, sessionTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		repo:           repo,
		sales:          sales,
		sessions:       newSessionManager(sessionSecret, sessionTTL),
		rateLimiter:    newRateLimiter(),
		inventoryCache: cache.NewLRU[[]core.InventoryItem](4, reportCacheTTL),
		cashflowCache:  cache.NewLRU[[]core.CashFlowRow](4, reportCacheTTL),
		cacheMgr:       cache.NewManager(),
	}
	s.cacheMgr.Register(s.inventoryCache)
	s.cacheMgr.Register(s.cashflowCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.wrap(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Auth.
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.wrap(s.handleMe))
	mux.HandleFunc("POST /api/auth/logout", s.wrap(s.handleLogout))

	// Catalog.
	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.wrapAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories/{id}", s.wrap(s.handleGetCategory))
	mux.HandleFunc("GET /api/categories/{id}/products", s.wrap(s.handleCategoryProducts))
	mux.HandleFunc("GET /api/products", s.wrap(s.handleListProducts))
	mux.HandleFunc("POST /api/products", s.wrapAuth(s.handleCreateProduct))
	mux.HandleFunc("GET /api/products/{id}", s.wrap(s.handleGetProduct))
	mux.HandleFunc("PUT /api/products/{id}", s.wrapAuth(s.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", s.wrapAuth(s.handleDeleteProduct))
	mux.HandleFunc("GET /api/products/code/{code}", s.wrap(s.handleGetProductByCode))

	// Purchases.
	mux.HandleFunc("GET /api/purchases", s.wrap(s.handleListPurchases))
	mux.HandleFunc("POST /api/purchases", s.wrapAuth(s.handleCreatePurchase))
	mux.HandleFunc("GET /api/purchases/{id}", s.wrap(s.handleGetPurchase))
	mux.HandleFunc("PUT /api/purchases/{id}", s.wrapAuth(s.handleUpdatePurchase))
	mux.HandleFunc("DELETE /api/purchases/{id}", s.wrapAuth(s.handleDeletePurchase))

	// Sales.
	mux.HandleFunc("GET /api/sales", s.wrap(s.handleListSales))
	mux.HandleFunc("POST /api/sales", s.wrapAuth(s.handleCreateSale))
	mux.HandleFunc("GET /api/sales/{id}", s.wrap(s.handleGetSale))
	mux.HandleFunc("PUT /api/sales/{id}", s.wrapAuth(s.handleUpdateSale))
	mux.HandleFunc("DELETE /api/sales/{id}", s.wrapAuth(s.handleDeleteSale))

	// Finance.
	mux.HandleFunc("GET /api/investments", s.wrap(s.handleListInvestments))
	mux.HandleFunc("POST /api/investments", s.wrapAuth(s.handleCreateInvestment))
	mux.HandleFunc("GET /api/investments/{id}", s.wrap(s.handleGetInvestment))
	mux.HandleFunc("PUT /api/investments/{id}", s.wrapAuth(s.handleUpdateInvestment))
	mux.HandleFunc("DELETE /api/investments/{id}", s.wrapAuth(s.handleDeleteInvestment))
	mux.HandleFunc("GET /api/expenses", s.wrap(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.wrapAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.wrap(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.wrapAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrapAuth(s.handleDeleteExpense))

	// Reports.
	mux.HandleFunc("GET /api/inventory", s.wrap(s.handleInventory))
	mux.HandleFunc("GET /api/cashflow", s.wrap(s.handleCashFlow))

	return s
}

// Shutdown stops the cleanup goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateReports drops cached report results after any write.
func (s *Server) invalidateReports() {
	s.inventoryCache.Delete(inventoryCacheKey)
	s.cashflowCache.Delete(cashflowCacheKey)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The store is opened fail-fast at startup; a cheap query confirms
	// it is still reachable.
	if _, err := s.repo.ListCategories(r.Context()); err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
