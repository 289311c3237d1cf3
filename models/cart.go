package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a denormalized snapshot of catalog fields taken at
// add-to-cart time. The price on the line is honored even if the live
// product price drifts afterwards.
type CartItem struct {
	ProductID     primitive.ObjectID `bson:"productId" json:"productId"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	Quantity      int                `bson:"quantity" json:"quantity"`
}
