package services

import (
	"testing"
	"time"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Address:    "12 MG Road",
		City:       "Bengaluru",
		PostalCode: "560001",
		Country:    "India",
	}
}

func testItems() []models.OrderItem {
	return []models.OrderItem{
		{Name: "headphones", Qty: 2, Price: 400, Product: primitive.NewObjectID()},
		{Name: "charger", Qty: 1, Price: 200, Product: primitive.NewObjectID()},
	}
}

func TestItemsPrice(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ItemsPrice(nil))
	assert.Equal(t, 1000.0, ItemsPrice(testItems()))
}

func TestBuildOrder_Totals(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	now := time.Now()

	t.Run("no discount", func(t *testing.T) {
		t.Parallel()

		order, err := BuildOrder(userID, testItems(), testAddress(), "PayPal", 0, now)
		require.NoError(t, err)

		assert.Equal(t, 1000.0, order.ItemsPrice)
		assert.Zero(t, order.TaxPrice)
		assert.Zero(t, order.ShippingPrice)
		assert.Equal(t, order.ItemsPrice, order.TotalPrice)
	})

	t.Run("ten percent coupon", func(t *testing.T) {
		t.Parallel()

		items := testItems()
		discount, err := EvaluateCoupon("SAVE10", ItemsPrice(items))
		require.NoError(t, err)

		order, err := BuildOrder(userID, items, testAddress(), "PayPal", discount, now)
		require.NoError(t, err)

		assert.Equal(t, 1000.0, order.ItemsPrice)
		assert.Equal(t, 900.0, order.TotalPrice)
	})
}

func TestBuildOrder_StartsUnpaidAndUndelivered(t *testing.T) {
	t.Parallel()

	order, err := BuildOrder(primitive.NewObjectID(), testItems(), testAddress(), "PayPal", 0, time.Now())
	require.NoError(t, err)

	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.DeliveredAt)
	assert.False(t, order.ID.IsZero())
}

func TestBuildOrder_EmptyCart(t *testing.T) {
	t.Parallel()

	_, err := BuildOrder(primitive.NewObjectID(), nil, testAddress(), "PayPal", 0, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildOrder_Validation(t *testing.T) {
	t.Parallel()

	badQty := testItems()
	badQty[0].Qty = 0

	noProduct := testItems()
	noProduct[1].Product = primitive.NilObjectID

	negativePrice := testItems()
	negativePrice[0].Price = -5

	noCity := testAddress()
	noCity.City = ""

	tests := []struct {
		name          string
		items         []models.OrderItem
		address       models.ShippingAddress
		paymentMethod string
	}{
		{name: "zero quantity", items: badQty, address: testAddress(), paymentMethod: "PayPal"},
		{name: "missing product ref", items: noProduct, address: testAddress(), paymentMethod: "PayPal"},
		{name: "negative price", items: negativePrice, address: testAddress(), paymentMethod: "PayPal"},
		{name: "incomplete address", items: testItems(), address: noCity, paymentMethod: "PayPal"},
		{name: "missing payment method", items: testItems(), address: testAddress(), paymentMethod: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildOrder(primitive.NewObjectID(), tt.items, tt.address, tt.paymentMethod, 0, time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBuildOrder_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	items := testItems()
	order, err := BuildOrder(primitive.NewObjectID(), items, testAddress(), "PayPal", 0, time.Now())
	require.NoError(t, err)

	// A later catalog edit mutates the caller's lines, the order keeps
	// its copies.
	items[0].Name = "renamed"
	items[0].Price = 9999

	assert.Equal(t, "headphones", order.OrderItems[0].Name)
	assert.Equal(t, 400.0, order.OrderItems[0].Price)
	assert.Equal(t, 1000.0, order.ItemsPrice)
}

func TestApplyPayment(t *testing.T) {
	t.Parallel()

	order, err := BuildOrder(primitive.NewObjectID(), testItems(), testAddress(), "PayPal", 0, time.Now())
	require.NoError(t, err)

	now := time.Now()
	result := models.PaymentResult{ID: "PAY-1", Status: "COMPLETED", EmailAddress: "buyer@example.com"}
	ApplyPayment(&order, result, now)

	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, now, *order.PaidAt)
	assert.Equal(t, result, order.PaymentResult)
}

func TestApplyDelivery_RepeatRestamps(t *testing.T) {
	t.Parallel()

	order, err := BuildOrder(primitive.NewObjectID(), testItems(), testAddress(), "PayPal", 0, time.Now())
	require.NoError(t, err)

	first := time.Now()
	ApplyDelivery(&order, first)
	assert.True(t, order.IsDelivered)
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, first, *order.DeliveredAt)

	second := first.Add(time.Minute)
	ApplyDelivery(&order, second)
	assert.True(t, order.IsDelivered)
	assert.Equal(t, second, *order.DeliveredAt)
}

func TestCheckoutScenario(t *testing.T) {
	t.Parallel()

	items := []models.OrderItem{
		{Name: "p1", Qty: 2, Price: 100, Product: primitive.NewObjectID()},
	}

	discount, err := EvaluateCoupon("SAVE10", ItemsPrice(items))
	require.NoError(t, err)

	order, err := BuildOrder(primitive.NewObjectID(), items, testAddress(), "PayPal", discount, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 180.0, order.TotalPrice)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)

	payTime := time.Now()
	ApplyPayment(&order, models.PaymentResult{ID: "PAY-2", Status: "COMPLETED"}, payTime)
	deliverTime := payTime.Add(time.Hour)
	ApplyDelivery(&order, deliverTime)

	assert.True(t, order.IsPaid)
	assert.True(t, order.IsDelivered)
	require.NotNil(t, order.PaidAt)
	require.NotNil(t, order.DeliveredAt)

	// Delivery is already terminal, a second call leaves it true.
	ApplyDelivery(&order, deliverTime.Add(time.Hour))
	assert.True(t, order.IsDelivered)
}
