// Package memory holds an in-memory sale ledger used in tests and in
// deployments that run without Google Sheets credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"reventa/internal/sheets"
)

type Ledger struct {
	mu      sync.Mutex
	entries []sheets.LedgerEntry

	// FailWith, when set, makes every Append return this error.
	FailWith error
}

var _ sheets.SaleLedger = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(_ context.Context, entry sheets.LedgerEntry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailWith != nil {
		return "", l.FailWith
	}
	l.entries = append(l.entries, entry)
	return fmt.Sprintf("memory!A%d", len(l.entries)), nil
}

// Entries returns a copy of everything appended so far.
func (l *Ledger) Entries() []sheets.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]sheets.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
