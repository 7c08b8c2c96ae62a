package orders

import (
	"context"

	"github.com/shopspring/decimal"
)

// depositNote marks the payment row created from an order's deposit.
const depositNote = "Deposit"

// Recalculate rewrites an order's derived columns from its current items and
// payments. It is the only code path allowed to touch subtotal,
// estimated_cost, and total_paid, and every item or payment mutation must
// invoke it before its transaction commits. Arithmetic happens here, not in
// SQL, so the result is exact on every backend.
func Recalculate(ctx context.Context, repo Repository, orderID int64) error {
	items, err := repo.ListItems(ctx, orderID)
	if err != nil {
		return err
	}
	payments, err := repo.ListPayments(ctx, orderID)
	if err != nil {
		return err
	}

	subtotal := decimal.Zero
	estimatedCost := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Qty.Mul(it.UnitPrice))
		estimatedCost = estimatedCost.Add(it.Qty.Mul(it.UnitCostSnapshot))
	}
	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.Amount)
	}

	return repo.UpdateDerivedTotals(ctx, orderID, subtotal, estimatedCost, totalPaid)
}
