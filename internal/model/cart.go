package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Products  []CartLine         `json:"products" bson:"products"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CartLine is one (product reference, quantity) pair within a cart.
type CartLine struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// ResolvedCart is the read model for a cart: each line carries the current
// product document, or nil when the product has since been deleted.
type ResolvedCart struct {
	ID        primitive.ObjectID `json:"id"`
	Products  []ResolvedCartLine `json:"products"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type ResolvedCartLine struct {
	ProductID primitive.ObjectID `json:"product_id"`
	Quantity  int                `json:"quantity"`
	Product   *Product           `json:"product"`
}
