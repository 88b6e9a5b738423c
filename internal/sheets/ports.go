package sheets

import (
	"context"

	"reventa/internal/core"
)

// LedgerEntry is one row of the external sales ledger.
type LedgerEntry struct {
	SaleID      int64
	SaleDate    string
	ProductCode string
	ProductName string
	Quantity    int64
	UnitPrice   core.Money
	Total       core.Money
	BuyerName   string
}

// SaleLedger is the outbound port for the sales ledger. Append returns
// a reference to the written row for logging and audit.
type SaleLedger interface {
	Append(ctx context.Context, entry LedgerEntry) (rowRef string, err error)
}
