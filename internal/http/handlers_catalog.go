package http

import (
	"net/http"
	"strings"

	"reventa/internal/core"
	"reventa/internal/storage"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.repo.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(cats))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	cat, err := s.repo.GetCategoryByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

type categoryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat := core.Category{
		Name: strings.TrimSpace(req.Name),
		Code: strings.ToUpper(strings.TrimSpace(req.Code)),
	}
	if err := cat.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.repo.CreateCategory(r.Context(), cat)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if _, err := s.repo.GetCategoryByID(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	products, err := s.repo.ListProductsByCategory(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(products))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.repo.ListProducts(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(products))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := s.repo.GetProductByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetProductByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if code == "" {
		writeError(w, http.StatusBadRequest, "invalid product code")
		return
	}
	p, err := s.repo.GetProductByCode(r.Context(), code)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productRequest struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

// handleCreateProduct creates a product; its code is allocated by the
// store and never supplied by the client.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, core.ErrEmptyName.Error())
		return
	}
	if req.CategoryID < 1 {
		writeError(w, http.StatusUnprocessableEntity, "categoryId is required")
		return
	}

	created, err := s.repo.CreateProduct(r.Context(), name, req.CategoryID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, created)
}

type productPatch struct {
	Name       *string `json:"name"`
	CategoryID *int64  `json:"categoryId"`
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req productPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeError(w, http.StatusUnprocessableEntity, core.ErrEmptyName.Error())
			return
		}
		req.Name = &trimmed
	}
	if req.CategoryID != nil && *req.CategoryID < 1 {
		writeError(w, http.StatusUnprocessableEntity, "invalid categoryId")
		return
	}

	if err := s.repo.UpdateProduct(r.Context(), id, storage.ProductUpdate{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	}); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()

	p, err := s.repo.GetProductByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleDeleteProduct removes a catalog entry. Purchase and sale
// history keeps its rows; only the joined product reference disappears.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := s.repo.DeleteProduct(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
