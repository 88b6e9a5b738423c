package memory

import (
	"context"
	"errors"
	"testing"

	"reventa/internal/core"
	"reventa/internal/sheets"
)

func TestAppendAndEntries(t *testing.T) {
	ledger := New()
	ctx := context.Background()

	ref, err := ledger.Append(ctx, sheets.LedgerEntry{
		SaleID:      1,
		SaleDate:    "2024-03-15",
		ProductCode: "POK0000001",
		Quantity:    2,
		UnitPrice:   core.Money{Cents: 1250},
		Total:       core.Money{Cents: 2500},
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "memory!A1" {
		t.Errorf("Append() ref = %q, want %q", ref, "memory!A1")
	}

	entries := ledger.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() len = %d, want 1", len(entries))
	}
	if entries[0].ProductCode != "POK0000001" {
		t.Errorf("entry product code = %q", entries[0].ProductCode)
	}
}

func TestAppendFailure(t *testing.T) {
	ledger := New()
	want := errors.New("ledger unavailable")
	ledger.FailWith = want

	if _, err := ledger.Append(context.Background(), sheets.LedgerEntry{SaleID: 1}); !errors.Is(err, want) {
		t.Errorf("Append() error = %v, want %v", err, want)
	}
	if len(ledger.Entries()) != 0 {
		t.Error("failed append must not record an entry")
	}
}
