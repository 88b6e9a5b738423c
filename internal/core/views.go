package core

import "github.com/shopspring/decimal"

// InventoryItem is one row of the inventory valuation view: current
// stock and its valuation for a product with purchase or sale activity.
type InventoryItem struct {
	ProductID      int64           `json:"productId"`
	ProductCode    string          `json:"productCode"`
	ProductName    string          `json:"productName"`
	CategoryID     int64           `json:"categoryId"`
	TotalPurchased int64           `json:"totalPurchased"`
	TotalSold      int64           `json:"totalSold"`
	FinalStock     int64           `json:"finalStock"`
	AvgUnitPrice   decimal.Decimal `json:"avgUnitPrice"`
	InventoryValue Money           `json:"inventoryValue"`
}

// avgPrecision is the decimal precision kept for the unweighted mean of
// purchase unit prices before the stock multiplication.
const avgPrecision = 4

// Valuate fills the derived fields of an inventory row from its raw
// aggregates. The average is the unweighted mean of purchase unit
// prices; the inventory value is finalStock × avg, rounded to two
// decimals. Stock may go negative when sales exceed recorded purchases;
// that is accepted business reality, not an error.
func (it *InventoryItem) Valuate(sumUnitPriceCents, purchaseCount int64) {
	it.FinalStock = it.TotalPurchased - it.TotalSold
	if purchaseCount > 0 {
		sum := decimal.New(sumUnitPriceCents, -2)
		it.AvgUnitPrice = sum.DivRound(decimal.NewFromInt(purchaseCount), avgPrecision)
	} else {
		it.AvgUnitPrice = decimal.Zero
	}
	value := decimal.NewFromInt(it.FinalStock).Mul(it.AvgUnitPrice).Round(2)
	it.InventoryValue = Money{Cents: value.Shift(2).IntPart()}
}

// CashFlowRow is one calendar month (YYYY-MM) of the cash-flow view.
type CashFlowRow struct {
	Month            string `json:"month"`
	GiomarInvestment Money  `json:"giomarInvestment"`
	ErickInvestment  Money  `json:"erickInvestment"`
	TotalInvestment  Money  `json:"totalInvestment"`
	TotalPurchases   Money  `json:"totalPurchases"`
	TotalSales       Money  `json:"totalSales"`
	TotalExpenses    Money  `json:"totalExpenses"`
	NetBalance       Money  `json:"netBalance"`
	AccumulatedCash  Money  `json:"accumulatedCash"`
}

// AccumulateCashFlow fills NetBalance and AccumulatedCash on rows that
// already carry their monthly sums. Rows must be in ascending month
// order: the accumulated figure is a strict left fold, each month
// depending on every prior month's net balance.
func AccumulateCashFlow(rows []CashFlowRow) []CashFlowRow {
	var running Money
	for i := range rows {
		r := &rows[i]
		r.NetBalance = r.TotalInvestment.Add(r.TotalSales).Sub(r.TotalPurchases).Sub(r.TotalExpenses)
		running = running.Add(r.NetBalance)
		r.AccumulatedCash = running
	}
	return rows
}
