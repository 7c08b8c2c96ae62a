package models

import "time"

// Client is a customer of the shop. Deleting a client cascades to all of its
// orders, items, and payments.
type Client struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	Address   *string   `gorm:"column:address" json:"address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Client) TableName() string { return "clients" }
