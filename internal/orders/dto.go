package orders

import (
	"time"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	"github.com/powdercoat/erp-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ItemInput is one requested line of an order. UnitPrice overrides the
// product's default sale price when set.
type ItemInput struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Qty       decimal.Decimal  `json:"qty" validate:"required"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// CreateOrderInput carries everything needed to open an order.
type CreateOrderInput struct {
	ClientID      int64           `json:"clientId" validate:"required,gt=0"`
	Items         []ItemInput     `json:"items" validate:"required,min=1,dive"`
	Deposit       decimal.Decimal `json:"deposit"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
}

// UpdateOrderInput replaces the full item set and header fields of an order.
type UpdateOrderInput struct {
	ClientID      int64           `json:"clientId" validate:"required,gt=0"`
	Items         []ItemInput     `json:"items" validate:"required,min=1,dive"`
	Deposit       decimal.Decimal `json:"deposit"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
}

// ListFilters narrows the order list. Date wins over Days when both are set;
// Days <= 0 disables the recency cutoff.
type ListFilters struct {
	Date       *time.Time
	Days       int
	ClientName string
	Pagination pagination.Params
}

// ItemDetail is an order line joined with its product's display fields.
type ItemDetail struct {
	ID               int64           `gorm:"column:id" json:"id"`
	OrderID          int64           `gorm:"column:order_id" json:"order_id"`
	ProductID        int64           `gorm:"column:product_id" json:"product_id"`
	Qty              decimal.Decimal `gorm:"column:qty" json:"qty"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price" json:"unit_price"`
	UnitCostSnapshot decimal.Decimal `gorm:"column:unit_cost_snapshot" json:"unit_cost_snapshot"`
	ProductName      string          `gorm:"column:product_name" json:"product_name"`
	Color            *string         `gorm:"column:color" json:"color"`
	Unit             *string         `gorm:"column:unit" json:"unit"`
}

// OrderSummary is an order row joined with its client name, as returned by
// the list endpoint.
type OrderSummary struct {
	models.Order `gorm:"embedded"`
	ClientName   string       `gorm:"column:client_name" json:"client_name"`
	Items        []ItemDetail `gorm:"-" json:"items"`
}

// OrderDetail is the full single-order view: header, client contact fields,
// lines, payments, and the derived balance.
type OrderDetail struct {
	models.Order `gorm:"embedded"`
	ClientName   string           `gorm:"column:client_name" json:"client_name"`
	Phone        *string          `gorm:"column:phone" json:"phone"`
	Address      *string          `gorm:"column:address" json:"address"`
	Items        []ItemDetail     `gorm:"-" json:"items"`
	Payments     []models.Payment `gorm:"-" json:"payments"`
	BalanceDue   decimal.Decimal  `gorm:"-" json:"balance"`
}
