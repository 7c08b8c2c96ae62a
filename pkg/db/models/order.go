package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order aggregates line items and payments for a single client.
//
// Subtotal, EstimatedCost, and TotalPaid are derived columns. They are
// written exclusively by the recalculation routine after every item or
// payment mutation; no other code path may update them.
type Order struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ClientID      int64           `gorm:"column:client_id;not null" json:"client_id"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null;default:0" json:"subtotal"`
	EstimatedCost decimal.Decimal `gorm:"column:estimated_cost;type:numeric(12,2);not null;default:0" json:"estimated_cost"`
	Discount      decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0" json:"discount"`
	DepositPaid   decimal.Decimal `gorm:"column:deposit_paid;type:numeric(12,2);not null;default:0" json:"deposit_paid"`
	TotalPaid     decimal.Decimal `gorm:"column:total_paid;type:numeric(12,2);not null;default:0" json:"total_paid"`
	PaymentMethod string          `gorm:"column:payment_method;not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Order) TableName() string { return "orders" }

// Balance is the amount still owed by the client. It is never stored.
func (o Order) Balance() decimal.Decimal {
	return o.Subtotal.Sub(o.Discount).Sub(o.TotalPaid)
}
