package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// OutstandingRow is an order that still has money owed on it. Balance comes
// from the persisted totals, so a deposit already counted into total_paid is
// never subtracted twice.
type OutstandingRow struct {
	OrderID    int64           `json:"id"`
	ClientName string          `json:"client"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	TotalPaid  decimal.Decimal `json:"paid"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProfitFilters narrows the profit report. Nil fields are ignored.
type ProfitFilters struct {
	From     *time.Time
	To       *time.Time
	ClientID *int64
}

// ProfitRow is the per-order line of the profit report.
type ProfitRow struct {
	OrderID    int64           `json:"id"`
	ClientName string          `json:"client"`
	Revenue    decimal.Decimal `json:"revenue"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProfitTotals aggregates the rows of a profit report.
type ProfitTotals struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// ProfitReport is the full profit view: totals plus per-order rows.
type ProfitReport struct {
	Totals ProfitTotals `json:"totals"`
	Orders []ProfitRow  `json:"orders"`
}

// MethodFilters bounds the payment-method breakdown by order date.
type MethodFilters struct {
	From *time.Time
	To   *time.Time
}

// MethodRow aggregates orders sharing a payment method.
type MethodRow struct {
	PaymentMethod string          `json:"payment_method"`
	Orders        int             `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	Cost          decimal.Decimal `json:"cost"`
	Profit        decimal.Decimal `json:"profit"`
}

// Service defines the reporting queries.
type Service interface {
	Outstanding(ctx context.Context) ([]OutstandingRow, error)
	Profit(ctx context.Context, filters ProfitFilters) (*ProfitReport, error)
	PaymentMethods(ctx context.Context, filters MethodFilters) ([]MethodRow, error)
}

type service struct {
	repo Repository
}

// NewService builds a reports service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Outstanding(ctx context.Context) ([]OutstandingRow, error) {
	rows, err := s.repo.OrdersWithClient(ctx, nil, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	out := make([]OutstandingRow, 0, len(rows))
	for _, row := range rows {
		balance := row.Balance()
		if !balance.IsPositive() {
			continue
		}
		out = append(out, OutstandingRow{
			OrderID:    row.ID,
			ClientName: row.ClientName,
			Subtotal:   row.Subtotal,
			Discount:   row.Discount,
			TotalPaid:  row.TotalPaid,
			Balance:    balance,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) Profit(ctx context.Context, filters ProfitFilters) (*ProfitReport, error) {
	rows, err := s.repo.OrdersWithClient(ctx, filters.From, filters.To, filters.ClientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	report := &ProfitReport{
		Totals: ProfitTotals{
			Revenue: decimal.Zero,
			Cost:    decimal.Zero,
			Profit:  decimal.Zero,
		},
		Orders: make([]ProfitRow, 0, len(rows)),
	}
	for _, row := range rows {
		revenue := row.Subtotal.Sub(row.Discount)
		profit := revenue.Sub(row.EstimatedCost)
		report.Orders = append(report.Orders, ProfitRow{
			OrderID:    row.ID,
			ClientName: row.ClientName,
			Revenue:    revenue,
			Cost:       row.EstimatedCost,
			Profit:     profit,
			CreatedAt:  row.CreatedAt,
		})
		report.Totals.Count++
		report.Totals.Revenue = report.Totals.Revenue.Add(revenue)
		report.Totals.Cost = report.Totals.Cost.Add(row.EstimatedCost)
		report.Totals.Profit = report.Totals.Profit.Add(profit)
	}
	return report, nil
}

func (s *service) PaymentMethods(ctx context.Context, filters MethodFilters) ([]MethodRow, error) {
	rows, err := s.repo.OrdersWithClient(ctx, filters.From, filters.To, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	byMethod := make(map[string]*MethodRow)
	for _, row := range rows {
		agg, ok := byMethod[row.PaymentMethod]
		if !ok {
			agg = &MethodRow{
				PaymentMethod: row.PaymentMethod,
				Revenue:       decimal.Zero,
				Cost:          decimal.Zero,
				Profit:        decimal.Zero,
			}
			byMethod[row.PaymentMethod] = agg
		}
		revenue := row.Subtotal.Sub(row.Discount)
		agg.Orders++
		agg.Revenue = agg.Revenue.Add(revenue)
		agg.Cost = agg.Cost.Add(row.EstimatedCost)
		agg.Profit = agg.Profit.Add(revenue.Sub(row.EstimatedCost))
	}

	out := make([]MethodRow, 0, len(byMethod))
	for _, agg := range byMethod {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentMethod < out[j].PaymentMethod })
	return out, nil
}
