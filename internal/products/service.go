package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput carries the mutable fields of a catalog entry. Prices and
// stock default to zero when omitted.
type ProductInput struct {
	Name             string          `json:"name" validate:"required"`
	Color            *string         `json:"color"`
	Unit             *string         `json:"unit"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	DefaultSalePrice decimal.Decimal `json:"default_sale_price"`
	StockQty         decimal.Decimal `json:"stock_qty"`
}

// StockAdjustment moves a product's stock by a signed delta.
type StockAdjustment struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Delta     decimal.Decimal `json:"delta" validate:"required"`
}

// Service defines product catalog operations.
type Service interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, input ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (*models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a product service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	product := &models.Product{
		Name:             name,
		Color:            input.Color,
		Unit:             input.Unit,
		CostPrice:        input.CostPrice,
		DefaultSalePrice: input.DefaultSalePrice,
		StockQty:         input.StockQty,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = name
	existing.Color = input.Color
	existing.Unit = input.Unit
	existing.CostPrice = input.CostPrice
	existing.DefaultSalePrice = input.DefaultSalePrice
	existing.StockQty = input.StockQty
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (*models.Product, error) {
	if delta.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.ApplyStockDelta(ctx, id, delta); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjust stock")
	}
	return s.Get(ctx, id)
}
