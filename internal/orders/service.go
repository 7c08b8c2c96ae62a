package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Inventory exposes the product lookups and stock movements that order flows
// perform inside their own transaction.
type Inventory interface {
	FindForOrder(ctx context.Context, tx *gorm.DB, productID int64) (*models.Product, error)
	ApplyStockDelta(ctx context.Context, tx *gorm.DB, productID int64, delta decimal.Decimal) error
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDetail, error)
	Update(ctx context.Context, id int64, input UpdateOrderInput) (*OrderDetail, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*OrderDetail, error)
	List(ctx context.Context, filters ListFilters) ([]OrderSummary, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory Inventory
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, inventory Inventory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory required")
	}
	return &service{repo: repo, tx: tx, inventory: inventory}, nil
}

func validateHeader(clientID int64, items []ItemInput, deposit, discount decimal.Decimal, paymentMethod string) error {
	if clientID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "client_id is required")
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if paymentMethod == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment_method is required")
	}
	if deposit.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "deposit cannot be negative")
	}
	if discount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}
	for _, it := range items {
		if it.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product_id is required")
		}
		if !it.Qty.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item qty must be greater than zero")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item unit_price cannot be negative")
		}
	}
	return nil
}

// applyItems checks stock, snapshots prices and costs, inserts the lines,
// and decrements stock. Runs inside the caller's transaction so a failed
// check aborts everything.
func (s *service) applyItems(ctx context.Context, tx *gorm.DB, repo Repository, orderID int64, items []ItemInput) error {
	rows := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		product, err := s.inventory.FindForOrder(ctx, tx, it.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "product %d not found", it.ProductID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if product.StockQty.LessThan(it.Qty) {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"Not enough stock for %s. In stock: %s", product.Name, product.StockQty)
		}

		unitPrice := product.DefaultSalePrice
		if it.UnitPrice != nil {
			unitPrice = *it.UnitPrice
		}
		rows = append(rows, models.OrderItem{
			OrderID:          orderID,
			ProductID:        product.ID,
			Qty:              it.Qty,
			UnitPrice:        unitPrice,
			UnitCostSnapshot: product.CostPrice,
		})
		if err := s.inventory.ApplyStockDelta(ctx, tx, product.ID, it.Qty.Neg()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
		}
	}
	if err := repo.CreateItems(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDetail, error) {
	if err := validateHeader(input.ClientID, input.Items, input.Deposit, input.Discount, input.PaymentMethod); err != nil {
		return nil, err
	}

	var detail *OrderDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ClientExists(ctx, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check client")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "client not found")
		}

		order, err := repo.CreateOrder(ctx, &models.Order{
			ClientID:      input.ClientID,
			Discount:      input.Discount,
			DepositPaid:   input.Deposit,
			PaymentMethod: input.PaymentMethod,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := s.applyItems(ctx, tx, repo, order.ID, input.Items); err != nil {
			return err
		}

		if input.Deposit.IsPositive() {
			note := depositNote
			_, err := repo.CreatePayment(ctx, &models.Payment{
				OrderID: order.ID,
				Amount:  input.Deposit,
				Note:    &note,
				PaidAt:  time.Now(),
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record deposit")
			}
		}

		if err := Recalculate(ctx, repo, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recalculate order")
		}

		detail, err = s.loadDetail(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Update replaces the order's item set and header fields. Stock consumed by
// the old items is restored before the new items are applied, so editing an
// order never leaks or double-counts inventory.
func (s *service) Update(ctx context.Context, id int64, input UpdateOrderInput) (*OrderDetail, error) {
	if err := validateHeader(input.ClientID, input.Items, input.Deposit, input.Discount, input.PaymentMethod); err != nil {
		return nil, err
	}

	var detail *OrderDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindOrder(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		exists, err := repo.ClientExists(ctx, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check client")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "client not found")
		}

		oldItems, err := repo.ListItems(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
		}
		for _, it := range oldItems {
			if err := s.inventory.ApplyStockDelta(ctx, tx, it.ProductID, it.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
			}
		}
		if err := repo.DeleteItemsByOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order items")
		}

		if err := s.applyItems(ctx, tx, repo, id, input.Items); err != nil {
			return err
		}

		if err := s.reconcileDeposit(ctx, repo, id, input.Deposit); err != nil {
			return err
		}

		err = repo.UpdateOrderHeader(ctx, id, map[string]any{
			"client_id":      input.ClientID,
			"discount":       input.Discount,
			"deposit_paid":   input.Deposit,
			"payment_method": input.PaymentMethod,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
		}

		if err := Recalculate(ctx, repo, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recalculate order")
		}

		detail, err = s.loadDetail(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// reconcileDeposit keeps the deposit payment row in step with the order's
// deposit_paid field when the order is edited.
func (s *service) reconcileDeposit(ctx context.Context, repo Repository, orderID int64, deposit decimal.Decimal) error {
	existing, err := repo.FindDepositPayment(ctx, orderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find deposit payment")
	}

	switch {
	case deposit.IsPositive() && existing != nil:
		if err := repo.UpdatePaymentAmount(ctx, existing.ID, deposit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update deposit payment")
		}
	case deposit.IsPositive():
		note := depositNote
		_, err := repo.CreatePayment(ctx, &models.Payment{
			OrderID: orderID,
			Amount:  deposit,
			Note:    &note,
			PaidAt:  time.Now(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record deposit")
		}
	case existing != nil:
		if err := repo.DeletePayment(ctx, existing.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete deposit payment")
		}
	}
	return nil
}

// Delete refunds an order: stock goes back to the products, then payments,
// items, and the order row are removed.
func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindOrder(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		items, err := repo.ListItems(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
		}
		for _, it := range items {
			if err := s.inventory.ApplyStockDelta(ctx, tx, it.ProductID, it.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
			}
		}

		if err := repo.DeletePaymentsByOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete payments")
		}
		if err := repo.DeleteItemsByOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order items")
		}
		if _, err := repo.DeleteOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, id int64) (*OrderDetail, error) {
	return s.loadDetail(ctx, s.repo, id)
}

func (s *service) loadDetail(ctx context.Context, repo Repository, id int64) (*OrderDetail, error) {
	detail, err := repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
	}

	items, err := repo.ListItemDetails(ctx, []int64{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
	}
	payments, err := repo.ListPayments(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payments")
	}

	detail.Items = items
	if detail.Items == nil {
		detail.Items = []ItemDetail{}
	}
	detail.Payments = payments
	if detail.Payments == nil {
		detail.Payments = []models.Payment{}
	}
	detail.BalanceDue = detail.Balance()
	return detail, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]OrderSummary, error) {
	summaries, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	ids := make([]int64, 0, len(summaries))
	for _, o := range summaries {
		ids = append(ids, o.ID)
	}
	items, err := s.repo.ListItemDetails(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
	}
	byOrder := make(map[int64][]ItemDetail, len(summaries))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range summaries {
		summaries[i].Items = byOrder[summaries[i].ID]
		if summaries[i].Items == nil {
			summaries[i].Items = []ItemDetail{}
		}
	}
	return summaries, nil
}
