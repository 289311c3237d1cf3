package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/database"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateOrder snapshots the submitted cart lines into an immutable
// order document. Prices come from the snapshot, not the live catalog.
// Stock is checked per line but never decremented or reserved.
func CreateOrder(c *gin.Context) {
	var body struct {
		OrderItems      []models.OrderItem     `json:"orderItems"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
		CouponCode      string                 `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	objUserID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	if len(body.OrderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, item := range body.OrderItems {
		var product models.Product
		err := database.ProductCollection.FindOne(ctx, bson.M{"_id": item.Product}).Decode(&product)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if item.Qty > product.CountInStock {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Not enough stock for %s, available: %d", product.Name, product.CountInStock),
			})
			return
		}
	}

	discount, err := services.EvaluateCoupon(body.CouponCode, services.ItemsPrice(body.OrderItems))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
		return
	}

	order, err := services.BuildOrder(objUserID, body.OrderItems, body.ShippingAddress, body.PaymentMethod, discount, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order failed"})
		return
	}

	if _, err := database.OrderCollection.InsertOne(ctx, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order failed"})
		return
	}

	// Best-effort clear of the server-mirrored cart; the order stands
	// even if this write is lost.
	_, _ = database.UserCollection.UpdateOne(ctx, bson.M{"_id": objUserID}, bson.M{"$set": bson.M{"cart": []models.CartItem{}}})

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "data": order})
}

func GetMyOrders(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.OrderCollection.Find(ctx, bson.M{"userId": objUserID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order = []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": orders})
}

// GetOrderByID is owner-or-admin: a user can only read their own order.
func GetOrderByID(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	objUserID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	err = database.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if isAdmin, _ := c.Get("isAdmin"); isAdmin != true && order.UserID != objUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to view this order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

// PayOrder marks the order paid with the trusted payment payload. No
// gateway verification happens here.
func PayOrder(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	objUserID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	var payment models.PaymentResult
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	err = database.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if isAdmin, _ := c.Get("isAdmin"); isAdmin != true && order.UserID != objUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to pay this order"})
		return
	}

	services.ApplyPayment(&order, payment, time.Now())

	update := bson.M{"$set": bson.M{
		"isPaid":        order.IsPaid,
		"paidAt":        order.PaidAt,
		"paymentResult": order.PaymentResult,
	}}
	if _, err := database.OrderCollection.UpdateOne(ctx, bson.M{"_id": objID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order paid", "data": order})
}
