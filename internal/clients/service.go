package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ClientInput carries the mutable fields of a client record.
type ClientInput struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// Service defines client directory operations.
type Service interface {
	List(ctx context.Context) ([]models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, input ClientInput) (*models.Client, error)
	Update(ctx context.Context, id int64, input ClientInput) (*models.Client, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a client service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]models.Client, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list clients")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find client")
	}
	return client, nil
}

func (s *service) Create(ctx context.Context, input ClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	client := &models.Client{
		Name:    name,
		Phone:   input.Phone,
		Address: input.Address,
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create client")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id int64, input ClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = name
	existing.Phone = input.Phone
	existing.Address = input.Address
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update client")
	}
	return s.Get(ctx, id)
}

// Delete removes a client together with every order, order item, and payment
// that references it, in one transaction.
func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		orderIDs, err := repo.OrderIDs(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load client orders")
		}
		if err := repo.DeletePayments(ctx, orderIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete client payments")
		}
		if err := repo.DeleteOrderItems(ctx, orderIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete client order items")
		}
		if err := repo.DeleteOrders(ctx, orderIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete client orders")
		}

		affected, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete client")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil
	})
}
