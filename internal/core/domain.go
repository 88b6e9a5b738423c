package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used everywhere dates are
// stored. Dates are plain strings, not timestamps; month bucketing
// works on the first 7 characters.
const DateLayout = "2006-01-02"

// PurchaseStatus tracks delivery state of a purchase.
type PurchaseStatus string

const (
	StatusReceived          PurchaseStatus = "Received"
	StatusPartiallyReceived PurchaseStatus = "Partially Received"
	StatusPending           PurchaseStatus = "Pending"
)

// Investor is one of the two partners who record capital contributions.
type Investor string

const (
	InvestorGiomar Investor = "Giomar"
	InvestorErick  Investor = "Erick"
)

// ExpenseCategory classifies operating expenses.
type ExpenseCategory string

const (
	ExpenseAdvertising ExpenseCategory = "Advertising"
	ExpenseTransport   ExpenseCategory = "Transport"
	ExpensePackaging   ExpenseCategory = "Packaging"
	ExpenseOther       ExpenseCategory = "Other"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCode      = errors.New("category code must be exactly 3 letters")
	ErrInvalidStatus    = errors.New("invalid purchase status")
	ErrInvalidInvestor  = errors.New("invalid investor")
	ErrInvalidCategory  = errors.New("invalid expense category")
)

type (
	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Code      string    `json:"code"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Product struct {
		ID         int64     `json:"id"`
		Code       string    `json:"code"`
		Name       string    `json:"name"`
		CategoryID int64     `json:"categoryId"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}

	// ProductRef is the joined product identity attached to purchase
	// and sale rows in list responses. Nil when the product has been
	// deleted (history rows are orphaned, never cascaded).
	ProductRef struct {
		ID         int64  `json:"id"`
		Code       string `json:"code"`
		Name       string `json:"name"`
		CategoryID int64  `json:"categoryId"`
	}

	Purchase struct {
		ID             int64          `json:"id"`
		PurchaseDate   string         `json:"purchaseDate"`
		ProductID      int64          `json:"productId"`
		Quantity       int64          `json:"quantity"`
		UnitPrice      Money          `json:"unitPrice"`
		Total          Money          `json:"total"`
		SuggestedPrice Money          `json:"suggestedPrice"`
		Status         PurchaseStatus `json:"status"`
		Detail         string         `json:"detail,omitempty"`
		CreatedAt      time.Time      `json:"createdAt"`
		UpdatedAt      time.Time      `json:"updatedAt"`
		Product        *ProductRef    `json:"product,omitempty"`
	}

	Sale struct {
		ID         int64       `json:"id"`
		SaleDate   string      `json:"saleDate"`
		ProductID  int64       `json:"productId"`
		Quantity   int64       `json:"quantity"`
		UnitPrice  Money       `json:"unitPrice"`
		Total      Money       `json:"total"`
		BuyerName  string      `json:"buyerName,omitempty"`
		BuyerEmail string      `json:"buyerEmail,omitempty"`
		BuyerPhone string      `json:"buyerPhone,omitempty"`
		CreatedAt  time.Time   `json:"createdAt"`
		UpdatedAt  time.Time   `json:"updatedAt"`
		Product    *ProductRef `json:"product,omitempty"`
	}

	Investment struct {
		ID             int64     `json:"id"`
		InvestmentDate string    `json:"investmentDate"`
		Description    string    `json:"description"`
		Investor       Investor  `json:"investor"`
		Amount         Money     `json:"amount"`
		CreatedAt      time.Time `json:"createdAt"`
		UpdatedAt      time.Time `json:"updatedAt"`
	}

	Expense struct {
		ID          int64           `json:"id"`
		ExpenseDate string          `json:"expenseDate"`
		Description string          `json:"description"`
		Category    ExpenseCategory `json:"category"`
		Amount      Money           `json:"amount"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	User struct {
		ID           int64     `json:"id"`
		OpenID       string    `json:"openId"`
		Name         string    `json:"name,omitempty"`
		Email        string    `json:"email,omitempty"`
		LoginMethod  string    `json:"loginMethod,omitempty"`
		Role         string    `json:"role"`
		CreatedAt    time.Time `json:"createdAt"`
		LastSignedIn time.Time `json:"lastSignedIn"`
	}
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusPartiallyReceived, StatusPending:
		return true
	}
	return false
}

func (i Investor) Valid() bool {
	return i == InvestorGiomar || i == InvestorErick
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseAdvertising, ExpenseTransport, ExpensePackaging, ExpenseOther:
		return true
	}
	return false
}

// ValidateDate checks a calendar-day string against DateLayout.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the YYYY-MM bucket for a date string. Malformed or
// short date strings are excluded from bucketing.
func MonthKey(date string) (string, bool) {
	if len(date) < 7 {
		return "", false
	}
	return date[:7], true
}

// ValidateCategoryCode checks the 3-letter uppercase prefix used as a
// product code namespace.
func ValidateCategoryCode(code string) error {
	if len(code) != 3 {
		return ErrInvalidCode
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCode
		}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return ValidateCategoryCode(c.Code)
}

func (p Purchase) Validate() error {
	if err := ValidateDate(p.PurchaseDate); err != nil {
		return err
	}
	if p.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.UnitPrice.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (s Sale) Validate() error {
	if err := ValidateDate(s.SaleDate); err != nil {
		return err
	}
	if s.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if s.UnitPrice.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (i Investment) Validate() error {
	if err := ValidateDate(i.InvestmentDate); err != nil {
		return err
	}
	if strings.TrimSpace(i.Description) == "" {
		return ErrEmptyDescription
	}
	if !i.Investor.Valid() {
		return ErrInvalidInvestor
	}
	if i.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := ValidateDate(e.ExpenseDate); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
