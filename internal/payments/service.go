package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/powdercoat/erp-backend/internal/orders"
	"github.com/powdercoat/erp-backend/pkg/db/models"
	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PaymentInput records money received against an order. PaidAt defaults to
// the current time when omitted.
type PaymentInput struct {
	OrderID int64           `json:"orderId" validate:"required,gt=0"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	Note    *string         `json:"note"`
	PaidAt  *time.Time      `json:"paidAt"`
}

// Service appends payments to orders and returns the refreshed order view.
type Service interface {
	Create(ctx context.Context, input PaymentInput) (*orders.OrderDetail, error)
	ListByOrder(ctx context.Context, orderID int64) ([]models.Payment, error)
}

type service struct {
	repo     orders.Repository
	tx       txRunner
	ordersvc orders.Service
}

// NewService builds a payment service. Payments live in the orders
// repository since every payment row is order-scoped.
func NewService(repo orders.Repository, tx txRunner, ordersvc orders.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ordersvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &service{repo: repo, tx: tx, ordersvc: ordersvc}, nil
}

func (s *service) Create(ctx context.Context, input PaymentInput) (*orders.OrderDetail, error) {
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindOrder(ctx, input.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		_, err := repo.CreatePayment(ctx, &models.Payment{
			OrderID: input.OrderID,
			Amount:  input.Amount,
			Note:    input.Note,
			PaidAt:  paidAt,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment")
		}

		if err := orders.Recalculate(ctx, repo, input.OrderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recalculate order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ordersvc.Get(ctx, input.OrderID)
}

func (s *service) ListByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	out, err := s.repo.ListPayments(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	if out == nil {
		out = []models.Payment{}
	}
	return out, nil
}
