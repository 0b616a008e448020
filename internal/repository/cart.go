package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tuanvumaihuynh/shop-backend/internal/model"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/db"
)

var ErrCartNotFound = errors.New("cart not found")

type CartRepository interface {
	CreateCart(ctx context.Context, cart model.Cart) (model.Cart, error)
	GetCart(ctx context.Context, id primitive.ObjectID) (model.Cart, error)
	// UpdateCartLines replaces the cart's line list and returns the updated
	// cart, or ErrCartNotFound.
	UpdateCartLines(ctx context.Context, id primitive.ObjectID, lines []model.CartLine) (model.Cart, error)
}

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(database *mongo.Database) CartRepository {
	return &cartRepository{
		collection: database.Collection(db.CartCollection),
	}
}

func (r cartRepository) CreateCart(ctx context.Context, cart model.Cart) (model.Cart, error) {
	res, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		return model.Cart{}, fmt.Errorf("insert cart: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}

	return cart, nil
}

func (r cartRepository) GetCart(ctx context.Context, id primitive.ObjectID) (model.Cart, error) {
	var cart model.Cart
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Cart{}, ErrCartNotFound
		}
		return model.Cart{}, fmt.Errorf("find cart: %w", err)
	}

	return cart, nil
}

func (r cartRepository) UpdateCartLines(ctx context.Context, id primitive.ObjectID, lines []model.CartLine) (model.Cart, error) {
	update := bson.M{
		"$set": bson.M{
			"products":   lines,
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart model.Cart
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Cart{}, ErrCartNotFound
		}
		return model.Cart{}, fmt.Errorf("update cart lines: %w", err)
	}

	return cart, nil
}
