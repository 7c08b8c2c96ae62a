package orders

import (
	"context"
	"strings"
	"time"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	"github.com/powdercoat/erp-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders, their line items,
// and their payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ClientExists(ctx context.Context, clientID int64) (bool, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrderHeader(ctx context.Context, id int64, updates map[string]any) error
	DeleteOrder(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filters ListFilters) ([]OrderSummary, error)
	FindDetail(ctx context.Context, id int64) (*OrderDetail, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	ListItemDetails(ctx context.Context, orderIDs []int64) ([]ItemDetail, error)
	DeleteItemsByOrder(ctx context.Context, orderID int64) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	ListPayments(ctx context.Context, orderID int64) ([]models.Payment, error)
	FindDepositPayment(ctx context.Context, orderID int64) (*models.Payment, error)
	UpdatePaymentAmount(ctx context.Context, paymentID int64, amount decimal.Decimal) error
	DeletePayment(ctx context.Context, paymentID int64) error
	DeletePaymentsByOrder(ctx context.Context, orderID int64) error
	UpdateDerivedTotals(ctx context.Context, orderID int64, subtotal, estimatedCost, totalPaid decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderHeader(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteOrder(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Order{})
	return res.RowsAffected, res.Error
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]OrderSummary, error) {
	q := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, clients.name AS client_name").
		Joins("JOIN clients ON clients.id = orders.client_id")

	switch {
	case filters.Date != nil:
		dayStart := filters.Date.Truncate(24 * time.Hour)
		q = q.Where("orders.created_at >= ? AND orders.created_at < ?", dayStart, dayStart.Add(24*time.Hour))
	case filters.Days > 0:
		q = q.Where("orders.created_at >= ?", time.Now().AddDate(0, 0, -filters.Days))
	}
	if name := strings.TrimSpace(filters.ClientName); name != "" {
		q = q.Where("LOWER(clients.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	params := pagination.Normalize(filters.Pagination)
	var out []OrderSummary
	err := q.Order("orders.created_at DESC, orders.id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindDetail(ctx context.Context, id int64) (*OrderDetail, error) {
	var detail OrderDetail
	res := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, clients.name AS client_name, clients.phone, clients.address").
		Joins("JOIN clients ON clients.id = orders.client_id").
		Where("orders.id = ?", id).
		Scan(&detail)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &detail, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListItemDetails(ctx context.Context, orderIDs []int64) ([]ItemDetail, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var out []ItemDetail
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.id, order_items.order_id, order_items.product_id, order_items.qty, order_items.unit_price, order_items.unit_cost_snapshot, products.name AS product_name, products.color, products.unit").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) DeleteItemsByOrder(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) ListPayments(ctx context.Context, orderID int64) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("paid_at ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) FindDepositPayment(ctx context.Context, orderID int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND note = ?", orderID, depositNote).
		Order("id ASC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) UpdatePaymentAmount(ctx context.Context, paymentID int64, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("amount", amount).Error
}

func (r *repository) DeletePayment(ctx context.Context, paymentID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", paymentID).
		Delete(&models.Payment{}).Error
}

func (r *repository) DeletePaymentsByOrder(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Payment{}).Error
}

func (r *repository) UpdateDerivedTotals(ctx context.Context, orderID int64, subtotal, estimatedCost, totalPaid decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"subtotal":       subtotal,
			"estimated_cost": estimatedCost,
			"total_paid":     totalPaid,
		}).Error
}
