package orders

import (
	"context"
	"testing"
	"time"

	"github.com/powdercoat/erp-backend/pkg/db/models"
	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreate(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	powder := newProduct(t, conn, "RAL 9016 White", "8.00", "14.00", "20")
	clear := newProduct(t, conn, "Clear Coat", "5.00", "9.50", "10")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID: client.ID,
		Items: []ItemInput{
			{ProductID: powder.ID, Qty: dec("3")},
			{ProductID: clear.ID, Qty: dec("2"), UnitPrice: decPtr("8.00")},
		},
		Deposit:       dec("20"),
		Discount:      dec("5"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// 3*14 + 2*8 = 58
	assert.True(t, detail.Subtotal.Equal(dec("58")), "subtotal %s", detail.Subtotal)
	// 3*8 + 2*5 = 34
	assert.True(t, detail.EstimatedCost.Equal(dec("34")))
	assert.True(t, detail.TotalPaid.Equal(dec("20")))
	// 58 - 5 - 20 = 33
	assert.True(t, detail.BalanceDue.Equal(dec("33")))
	assert.Equal(t, "Acme Fabrication", detail.ClientName)
	require.Len(t, detail.Items, 2)
	assert.True(t, detail.Items[0].UnitCostSnapshot.Equal(dec("8.00")))
	assert.Equal(t, "RAL 9016 White", detail.Items[0].ProductName)

	require.Len(t, detail.Payments, 1)
	require.NotNil(t, detail.Payments[0].Note)
	assert.Equal(t, "Deposit", *detail.Payments[0].Note)
	assert.True(t, detail.Payments[0].Amount.Equal(dec("20")))

	assert.True(t, productStock(t, conn, powder.ID).Equal(dec("17")))
	assert.True(t, productStock(t, conn, clear.ID).Equal(dec("8")))
}

func TestOrderCreateInsufficientStockRollsBack(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	first := newProduct(t, conn, "Matte Black", "6.00", "11.00", "50")
	scarce := newProduct(t, conn, "Candy Red", "9.00", "16.00", "1")

	_, err := svc.Create(ctx, CreateOrderInput{
		ClientID: client.ID,
		Items: []ItemInput{
			{ProductID: first.ID, Qty: dec("10")},
			{ProductID: scarce.ID, Qty: dec("2")},
		},
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Candy Red")

	// the whole transaction rolled back, including the first item's decrement
	assert.True(t, productStock(t, conn, first.ID).Equal(dec("50")))
	assert.True(t, productStock(t, conn, scarce.ID).Equal(dec("1")))
	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderCreateUnknownClient(t *testing.T) {
	svc, conn := newOrdersService(t)

	product := newProduct(t, conn, "Gloss Blue", "7.00", "12.00", "5")
	_, err := svc.Create(context.Background(), CreateOrderInput{
		ClientID:      999,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("1")}},
		PaymentMethod: "card",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "client not found")
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	svc, conn := newOrdersService(t)

	client := newClient(t, conn, "Acme Fabrication")
	_, err := svc.Create(context.Background(), CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: 404, Qty: dec("1")}},
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderCreateValidation(t *testing.T) {
	svc, _ := newOrdersService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{"missing client", CreateOrderInput{Items: []ItemInput{{ProductID: 1, Qty: dec("1")}}, PaymentMethod: "cash"}},
		{"no items", CreateOrderInput{ClientID: 1, PaymentMethod: "cash"}},
		{"missing method", CreateOrderInput{ClientID: 1, Items: []ItemInput{{ProductID: 1, Qty: dec("1")}}}},
		{"zero qty", CreateOrderInput{ClientID: 1, Items: []ItemInput{{ProductID: 1, Qty: dec("0")}}, PaymentMethod: "cash"}},
		{"negative deposit", CreateOrderInput{ClientID: 1, Items: []ItemInput{{ProductID: 1, Qty: dec("1")}}, Deposit: dec("-1"), PaymentMethod: "cash"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestOrderCostSnapshotIsolation(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Satin Grey", "10.00", "18.00", "30")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("2")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// reprice the catalog entry after the sale
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"cost_price": dec("99"), "default_sale_price": dec("99")}).Error)

	// the stored snapshots keep the order's totals stable, even through a
	// fresh recalculation
	repo := NewRepository(conn)
	require.NoError(t, Recalculate(ctx, repo, detail.Order.ID))

	after, err := svc.Get(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.True(t, after.Subtotal.Equal(dec("36")))
	assert.True(t, after.EstimatedCost.Equal(dec("20")))
}

func TestRecalculateIdempotent(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Gloss Red", "4.00", "7.00", "10")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("4")}},
		Deposit:       dec("10"),
		PaymentMethod: "transfer",
	})
	require.NoError(t, err)

	repo := NewRepository(conn)
	require.NoError(t, Recalculate(ctx, repo, detail.Order.ID))
	require.NoError(t, Recalculate(ctx, repo, detail.Order.ID))

	after, err := svc.Get(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.True(t, after.Subtotal.Equal(detail.Subtotal))
	assert.True(t, after.EstimatedCost.Equal(detail.EstimatedCost))
	assert.True(t, after.TotalPaid.Equal(detail.TotalPaid))
}

func TestOrderUpdateRestoresStockBeforeApplying(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Matte Black", "6.00", "11.00", "10")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("3")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.True(t, productStock(t, conn, product.ID).Equal(dec("7")))

	// raising qty to 5 must consume only the incremental 2 units
	updated, err := svc.Update(ctx, detail.Order.ID, UpdateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("5")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, productStock(t, conn, product.ID).Equal(dec("5")))
	assert.True(t, updated.Subtotal.Equal(dec("55")))

	// resubmitting the same qty must leave stock untouched
	_, err = svc.Update(ctx, detail.Order.ID, UpdateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("5")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, productStock(t, conn, product.ID).Equal(dec("5")))
}

func TestOrderUpdateSwapsProducts(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	oldProduct := newProduct(t, conn, "Gloss Blue", "7.00", "12.00", "10")
	newerProduct := newProduct(t, conn, "Pearl White", "9.00", "15.00", "10")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: oldProduct.ID, Qty: dec("4")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, detail.Order.ID, UpdateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: newerProduct.ID, Qty: dec("2")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.True(t, productStock(t, conn, oldProduct.ID).Equal(dec("10")))
	assert.True(t, productStock(t, conn, newerProduct.ID).Equal(dec("8")))
	require.Len(t, updated.Items, 1)
	assert.Equal(t, newerProduct.ID, updated.Items[0].ProductID)
	assert.True(t, updated.Subtotal.Equal(dec("30")))
}

func TestOrderUpdateDeposit(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Clear Coat", "5.00", "9.00", "20")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("2")}},
		Deposit:       dec("10"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// raising the deposit rewrites the deposit payment, not a second row
	updated, err := svc.Update(ctx, detail.Order.ID, UpdateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("2")}},
		Deposit:       dec("15"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Len(t, updated.Payments, 1)
	assert.True(t, updated.Payments[0].Amount.Equal(dec("15")))
	assert.True(t, updated.TotalPaid.Equal(dec("15")))

	// clearing the deposit removes the payment row
	updated, err = svc.Update(ctx, detail.Order.ID, UpdateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("2")}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Payments)
	assert.True(t, updated.TotalPaid.IsZero())
}

func TestOrderUpdateMissing(t *testing.T) {
	svc, conn := newOrdersService(t)

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Gloss Red", "4.00", "7.00", "5")

	_, err := svc.Update(context.Background(), 12345, UpdateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("1")}},
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestOrderDeleteRefundsStock(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Satin Grey", "10.00", "18.00", "8")

	detail, err := svc.Create(ctx, CreateOrderInput{
		ClientID:      client.ID,
		Items:         []ItemInput{{ProductID: product.ID, Qty: dec("5")}},
		Deposit:       dec("30"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.True(t, productStock(t, conn, product.ID).Equal(dec("3")))

	require.NoError(t, svc.Delete(ctx, detail.Order.ID))

	assert.True(t, productStock(t, conn, product.ID).Equal(dec("8")))
	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)

	err = svc.Delete(ctx, detail.Order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestOrderGetMissing(t *testing.T) {
	svc, _ := newOrdersService(t)

	_, err := svc.Get(context.Background(), 777)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestOrderListEmbedsItems(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	client := newClient(t, conn, "Acme Fabrication")
	product := newProduct(t, conn, "Gloss Blue", "7.00", "12.00", "50")

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateOrderInput{
			ClientID:      client.ID,
			Items:         []ItemInput{{ProductID: product.ID, Qty: dec("1")}},
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, o := range list {
		assert.Equal(t, "Acme Fabrication", o.ClientName)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Gloss Blue", o.Items[0].ProductName)
	}
}

func TestOrderListFilters(t *testing.T) {
	svc, conn := newOrdersService(t)
	ctx := context.Background()

	acme := newClient(t, conn, "Acme Fabrication")
	beta := newClient(t, conn, "Beta Metals")

	old := models.Order{ClientID: acme.ID, PaymentMethod: "cash", CreatedAt: time.Now().AddDate(0, 0, -60)}
	require.NoError(t, conn.Create(&old).Error)
	recent := models.Order{ClientID: beta.ID, PaymentMethod: "card", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, conn.Create(&recent).Error)

	// default cutoff hides the 60-day-old order
	list, err := svc.List(ctx, ListFilters{Days: 30})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recent.ID, list[0].ID)

	// days <= 0 disables the cutoff
	list, err = svc.List(ctx, ListFilters{Days: 0})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// case-insensitive client name search
	list, err = svc.List(ctx, ListFilters{ClientName: "beta"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Beta Metals", list[0].ClientName)
}
