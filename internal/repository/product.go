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

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type UpdateProductParams struct {
	Title       *string
	Description *string
	Code        *string
	Price       *float64
	Stock       *int
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	ListProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error)

	// DecrementStock atomically decrements stock by qty, but only when the
	// current stock covers qty. It returns the remaining stock, or
	// ErrInsufficientStock / ErrProductNotFound.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (int, error)
	// IncrementStock adds qty back to stock. Used to compensate a
	// reservation that could not be completed.
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(database *mongo.Database) ProductRepository {
	return &productRepository{
		collection: database.Collection(db.ProductCollection),
	}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}

	return product, nil
}

func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	return products, nil
}

func (r productRepository) ListProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products by ids: %w", err)
	}

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	return products, nil
}

func (r productRepository) GetProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("find product: %w", err)
	}

	return product, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, id primitive.ObjectID, params UpdateProductParams) (model.Product, error) {
	set := bson.M{"updated_at": time.Now()}
	if params.Title != nil {
		set["title"] = *params.Title
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Code != nil {
		set["code"] = *params.Code
	}
	if params.Price != nil {
		set["price"] = *params.Price
	}
	if params.Stock != nil {
		set["stock"] = *params.Stock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	var product model.Product
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	return product, nil
}

func (r productRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (int, error) {
	// Single conditional update so two concurrent reservations cannot both
	// pass the stock check and oversell.
	filter := bson.M{
		"_id":   id,
		"stock": bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err == nil {
		return product.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	// The filter did not match: the product is either missing or short on
	// stock. Look it up once to tell the two apart.
	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return 0, fmt.Errorf("count product: %w", countErr)
	}
	if count == 0 {
		return 0, ErrProductNotFound
	}

	return 0, ErrInsufficientStock
}

func (r productRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updated_at": time.Now()},
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	return nil
}
