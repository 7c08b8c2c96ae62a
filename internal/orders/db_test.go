package orders

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/powdercoat/erp-backend/internal/products"
	dbpkg "github.com/powdercoat/erp-backend/pkg/db"
	"github.com/powdercoat/erp-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clients (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  color TEXT,
  unit TEXT,
  cost_price NUMERIC NOT NULL DEFAULT 0,
  default_sale_price NUMERIC NOT NULL DEFAULT 0,
  stock_qty NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  client_id INTEGER NOT NULL,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  estimated_cost NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  deposit_paid NUMERIC NOT NULL DEFAULT 0,
  total_paid NUMERIC NOT NULL DEFAULT 0,
  payment_method TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  qty NUMERIC NOT NULL DEFAULT 0,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  unit_cost_snapshot NUMERIC NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  amount NUMERIC NOT NULL DEFAULT 0,
  note TEXT,
  paid_at DATETIME
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newOrdersService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := setupOrdersTestDB(t)
	inventory := products.NewInventory(products.NewRepository(conn))
	svc, err := NewService(NewRepository(conn), dbpkg.FromConn(conn), inventory)
	require.NoError(t, err)
	return svc, conn
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()

	client := &models.Client{Name: name}
	require.NoError(t, db.Create(client).Error)
	return client
}

func newProduct(t *testing.T, db *gorm.DB, name, cost, price, stock string) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:             name,
		CostPrice:        dec(cost),
		DefaultSalePrice: dec(price),
		StockQty:         dec(stock),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStock(t *testing.T, db *gorm.DB, id int64) decimal.Decimal {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Where("id = ?", id).First(&product).Error)
	return product.StockQty
}
