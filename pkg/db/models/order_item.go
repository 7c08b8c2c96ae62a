package models

import "github.com/shopspring/decimal"

// OrderItem is a line of an order. UnitPrice and UnitCostSnapshot are copied
// from the product at order time so later catalog edits never change the
// value of historical orders.
type OrderItem struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID          int64           `gorm:"column:order_id;not null" json:"order_id"`
	ProductID        int64           `gorm:"column:product_id;not null" json:"product_id"`
	Qty              decimal.Decimal `gorm:"column:qty;type:numeric(12,3);not null" json:"qty"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	UnitCostSnapshot decimal.Decimal `gorm:"column:unit_cost_snapshot;type:numeric(12,2);not null" json:"unit_cost_snapshot"`
}

func (OrderItem) TableName() string { return "order_items" }
