package http

import (
	"net/http"
	"strings"

	"reventa/internal/core"
	"reventa/internal/storage"
)

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.repo.ListInvestments(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(investments))
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	inv, err := s.repo.GetInvestmentByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type investmentRequest struct {
	InvestmentDate string        `json:"investmentDate"`
	Description    string        `json:"description"`
	Investor       core.Investor `json:"investor"`
	Amount         core.Money    `json:"amount"`
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv := core.Investment{
		InvestmentDate: strings.TrimSpace(req.InvestmentDate),
		Description:    strings.TrimSpace(req.Description),
		Investor:       req.Investor,
		Amount:         req.Amount,
	}
	if err := inv.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.repo.CreateInvestment(r.Context(), inv)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, created)
}

type investmentPatch struct {
	InvestmentDate *string        `json:"investmentDate"`
	Description    *string        `json:"description"`
	Investor       *core.Investor `json:"investor"`
	Amount         *core.Money    `json:"amount"`
}

func (p investmentPatch) validate() error {
	if p.InvestmentDate != nil {
		if err := core.ValidateDate(*p.InvestmentDate); err != nil {
			return err
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return core.ErrEmptyDescription
	}
	if p.Investor != nil && !p.Investor.Valid() {
		return core.ErrInvalidInvestor
	}
	if p.Amount != nil && p.Amount.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	return nil
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	var req investmentPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if _, err := s.repo.GetInvestmentByID(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := s.repo.UpdateInvestment(r.Context(), id, storage.InvestmentUpdate{
		InvestmentDate: req.InvestmentDate,
		Description:    req.Description,
		Investor:       req.Investor,
		Amount:         req.Amount,
	}); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()

	updated, err := s.repo.GetInvestmentByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	if err := s.repo.DeleteInvestment(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.repo.ListExpenses(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(expenses))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	e, err := s.repo.GetExpenseByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type expenseRequest struct {
	ExpenseDate string               `json:"expenseDate"`
	Description string               `json:"description"`
	Category    core.ExpenseCategory `json:"category"`
	Amount      core.Money           `json:"amount"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e := core.Expense{
		ExpenseDate: strings.TrimSpace(req.ExpenseDate),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Amount:      req.Amount,
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.repo.CreateExpense(r.Context(), e)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, created)
}

type expensePatch struct {
	ExpenseDate *string               `json:"expenseDate"`
	Description *string               `json:"description"`
	Category    *core.ExpenseCategory `json:"category"`
	Amount      *core.Money           `json:"amount"`
}

func (p expensePatch) validate() error {
	if p.ExpenseDate != nil {
		if err := core.ValidateDate(*p.ExpenseDate); err != nil {
			return err
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return core.ErrEmptyDescription
	}
	if p.Category != nil && !p.Category.Valid() {
		return core.ErrInvalidCategory
	}
	if p.Amount != nil && p.Amount.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	return nil
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	var req expensePatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if _, err := s.repo.GetExpenseByID(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := s.repo.UpdateExpense(r.Context(), id, storage.ExpenseUpdate{
		ExpenseDate: req.ExpenseDate,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
	}); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()

	updated, err := s.repo.GetExpenseByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := s.repo.DeleteExpense(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
