package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received against an order. Append-only; rows are
// removed only when the whole order is refunded or cascade-deleted.
type Payment struct {
	ID      int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID int64           `gorm:"column:order_id;not null" json:"order_id"`
	Amount  decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Note    *string         `gorm:"column:note" json:"note"`
	PaidAt  time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
}

func (Payment) TableName() string { return "payments" }
