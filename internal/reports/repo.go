package reports

import (
	"context"
	"time"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	"gorm.io/gorm"
)

// OrderRow is an order joined with its client name, the unit every report
// aggregates over.
type OrderRow struct {
	models.Order `gorm:"embedded"`
	ClientName   string `gorm:"column:client_name" json:"client_name"`
}

// Repository defines the read-side queries reports are built from.
type Repository interface {
	OrdersWithClient(ctx context.Context, from, to *time.Time, clientID *int64) ([]OrderRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrdersWithClient(ctx context.Context, from, to *time.Time, clientID *int64) ([]OrderRow, error) {
	q := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, clients.name AS client_name").
		Joins("JOIN clients ON clients.id = orders.client_id")

	if from != nil {
		q = q.Where("orders.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("orders.created_at <= ?", *to)
	}
	if clientID != nil {
		q = q.Where("orders.client_id = ?", *clientID)
	}

	var out []OrderRow
	err := q.Order("orders.created_at DESC, orders.id DESC").Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
