package clients

import (
	"context"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for clients and their cascade
// cleanup across orders, order items, and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Client, error)
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id int64) (int64, error)
	OrderIDs(ctx context.Context, clientID int64) ([]int64, error)
	DeleteOrders(ctx context.Context, orderIDs []int64) error
	DeleteOrderItems(ctx context.Context, orderIDs []int64) error
	DeletePayments(ctx context.Context, orderIDs []int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a clients repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *repository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", client.ID).
		Updates(map[string]any{
			"name":    client.Name,
			"phone":   client.Phone,
			"address": client.Address,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Client{})
	return res.RowsAffected, res.Error
}

func (r *repository) OrderIDs(ctx context.Context, clientID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("client_id = ?", clientID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) DeleteOrders(ctx context.Context, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", orderIDs).
		Delete(&models.Order{}).Error
}

func (r *repository) DeleteOrderItems(ctx context.Context, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) DeletePayments(ctx context.Context, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Delete(&models.Payment{}).Error
}
