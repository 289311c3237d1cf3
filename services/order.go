package services

import (
	"errors"
	"fmt"
	"time"

	"storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// ItemsPrice sums price times quantity over the submitted snapshot.
// Prices come from the cart lines, not the live catalog, so a price
// change mid-checkout does not move the total.
func ItemsPrice(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Qty)
	}
	return total
}

// BuildOrder assembles a new order from a cart snapshot. The line items
// are value copies, decoupled from future product edits. Tax and
// shipping are flat zero; the total is the items price minus the
// discount. Both status flags start false.
func BuildOrder(userID primitive.ObjectID, items []models.OrderItem, address models.ShippingAddress, paymentMethod string, discount float64, now time.Time) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, fmt.Errorf("cart is empty: %w", ErrValidation)
	}
	for _, item := range items {
		if item.Product.IsZero() {
			return models.Order{}, fmt.Errorf("order item missing product reference: %w", ErrValidation)
		}
		if item.Qty < 1 {
			return models.Order{}, fmt.Errorf("order item quantity must be at least 1: %w", ErrValidation)
		}
		if item.Price < 0 {
			return models.Order{}, fmt.Errorf("order item price must not be negative: %w", ErrValidation)
		}
	}
	if address.Address == "" || address.City == "" || address.PostalCode == "" || address.Country == "" {
		return models.Order{}, fmt.Errorf("shipping address is incomplete: %w", ErrValidation)
	}
	if paymentMethod == "" {
		return models.Order{}, fmt.Errorf("payment method is required: %w", ErrValidation)
	}

	itemsPrice := ItemsPrice(items)

	order := models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		OrderItems:      append([]models.OrderItem(nil), items...),
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        0,
		ShippingPrice:   0,
		TotalPrice:      itemsPrice - discount,
		IsPaid:          false,
		IsDelivered:     false,
		CreatedAt:       now,
	}
	return order, nil
}

// ApplyPayment marks the order paid and records the trusted payment
// payload. One-way: the flag never goes back to false.
func ApplyPayment(order *models.Order, result models.PaymentResult, now time.Time) {
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = result
}

// ApplyDelivery marks the order delivered. Calling it again re-stamps
// deliveredAt; the flag stays true.
func ApplyDelivery(order *models.Order, now time.Time) {
	order.IsDelivered = true
	order.DeliveredAt = &now
}
