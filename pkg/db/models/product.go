package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. StockQty is the on-hand quantity and may go
// negative through the manual adjust operation.
type Product struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string          `gorm:"column:name;not null" json:"name"`
	Color            *string         `gorm:"column:color" json:"color"`
	Unit             *string         `gorm:"column:unit" json:"unit"`
	CostPrice        decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null;default:0" json:"cost_price"`
	DefaultSalePrice decimal.Decimal `gorm:"column:default_sale_price;type:numeric(12,2);not null;default:0" json:"default_sale_price"`
	StockQty         decimal.Decimal `gorm:"column:stock_qty;type:numeric(12,3);not null;default:0" json:"stock_qty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
