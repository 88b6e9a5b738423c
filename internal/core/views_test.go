package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInventoryItemValuate(t *testing.T) {
	tests := []struct {
		name      string
		purchased int64
		sold      int64
		sumCents  int64
		count     int64
		wantStock int64
		wantAvg   string
		wantValue string
	}{
		{
			name:      "simple",
			purchased: 10, sold: 4,
			sumCents: 1000, count: 2, // 5.00 avg
			wantStock: 6, wantAvg: "5", wantValue: "30.00",
		},
		{
			name:      "unweighted mean ignores quantity",
			purchased: 11, sold: 0,
			sumCents: 800, count: 2, // prices 5.00 and 3.00
			wantStock: 11, wantAvg: "4", wantValue: "44.00",
		},
		{
			name:      "negative stock allowed",
			purchased: 2, sold: 5,
			sumCents: 1000, count: 1,
			wantStock: -3, wantAvg: "10", wantValue: "-30.00",
		},
		{
			name:      "sales only, no purchases",
			purchased: 0, sold: 3,
			sumCents: 0, count: 0,
			wantStock: -3, wantAvg: "0", wantValue: "0.00",
		},
		{
			name:      "fractional average",
			purchased: 3, sold: 0,
			sumCents: 1000, count: 3, // 10.00 / 3 = 3.3333
			wantStock: 3, wantAvg: "3.3333", wantValue: "10.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := InventoryItem{TotalPurchased: tt.purchased, TotalSold: tt.sold}
			it.Valuate(tt.sumCents, tt.count)
			if it.FinalStock != tt.wantStock {
				t.Errorf("FinalStock = %d, want %d", it.FinalStock, tt.wantStock)
			}
			if want, _ := decimal.NewFromString(tt.wantAvg); !it.AvgUnitPrice.Equal(want) {
				t.Errorf("AvgUnitPrice = %s, want %s", it.AvgUnitPrice, tt.wantAvg)
			}
			if got := it.InventoryValue.String(); got != tt.wantValue {
				t.Errorf("InventoryValue = %s, want %s", got, tt.wantValue)
			}
		})
	}
}

func money(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func TestAccumulateCashFlow(t *testing.T) {
	rows := []CashFlowRow{
		{
			Month:            "2024-01",
			GiomarInvestment: money("100.00"),
			ErickInvestment:  money("50.00"),
			TotalInvestment:  money("150.00"),
			TotalPurchases:   money("80.00"),
		},
		{
			Month:          "2024-02",
			TotalSales:     money("120.00"),
			TotalPurchases: money("30.00"),
			TotalExpenses:  money("10.00"),
		},
		{
			Month:         "2024-03",
			TotalExpenses: money("200.00"),
		},
	}

	got := AccumulateCashFlow(rows)

	wantNet := []string{"70.00", "80.00", "-200.00"}
	wantAcc := []string{"70.00", "150.00", "-50.00"}
	for i, row := range got {
		if row.NetBalance.String() != wantNet[i] {
			t.Errorf("month %s NetBalance = %s, want %s", row.Month, row.NetBalance, wantNet[i])
		}
		if row.AccumulatedCash.String() != wantAcc[i] {
			t.Errorf("month %s AccumulatedCash = %s, want %s", row.Month, row.AccumulatedCash, wantAcc[i])
		}
	}
}

func TestAccumulateCashFlowEmpty(t *testing.T) {
	if got := AccumulateCashFlow(nil); len(got) != 0 {
		t.Errorf("AccumulateCashFlow(nil) = %v, want empty", got)
	}
}
