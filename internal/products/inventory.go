package products

import (
	"context"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Inventory adapts the repository for callers that run their own
// transactions, such as order creation and refunds.
type Inventory struct {
	repo Repository
}

// NewInventory wraps a products repository for transactional callers.
func NewInventory(repo Repository) *Inventory {
	return &Inventory{repo: repo}
}

func (i *Inventory) FindForOrder(ctx context.Context, tx *gorm.DB, productID int64) (*models.Product, error) {
	return i.repo.WithTx(tx).FindByID(ctx, productID)
}

func (i *Inventory) ApplyStockDelta(ctx context.Context, tx *gorm.DB, productID int64, delta decimal.Decimal) error {
	return i.repo.WithTx(tx).ApplyStockDelta(ctx, productID, delta)
}
