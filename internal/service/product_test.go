package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuanvumaihuynh/shop-backend/internal/apperr"
	"github.com/tuanvumaihuynh/shop-backend/internal/event"
	"github.com/tuanvumaihuynh/shop-backend/pkg/ptr"
)

func TestCreateProduct(t *testing.T) {
	productRepo := newMockProductRepo()
	producer := &mockProducer{}

	sut := NewProductService(testLogger(), productRepo, newMockProductCache(), producer)

	product, err := sut.CreateProduct(context.Background(), CreateProductParams{
		Title:       "Pen",
		Description: "Blue ballpoint pen",
		Code:        "P1",
		Price:       1,
		Stock:       5,
	})
	require.NoError(t, err)

	assert.False(t, product.ID.IsZero())
	assert.Equal(t, 5, product.Stock)
	assert.False(t, product.CreatedAt.IsZero())

	// retrievable immediately after creation
	got, err := sut.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)

	msgs := producer.produced()
	require.Len(t, msgs, 1)
	assert.Equal(t, event.TopicProductCreated, msgs[0].Topic)

	var ev event.ProductCreatedEvent
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &ev))
	assert.Equal(t, product.ID.Hex(), ev.ProductID)
	assert.Equal(t, 5, ev.Stock)
}

func TestCreateProduct_ProduceFailureIsNotSurfaced(t *testing.T) {
	producer := &mockProducer{err: assert.AnError}

	sut := NewProductService(testLogger(), newMockProductRepo(), newMockProductCache(), producer)

	_, err := sut.CreateProduct(context.Background(), CreateProductParams{
		Title:       "Pen",
		Description: "Blue ballpoint pen",
		Code:        "P1",
		Price:       1,
		Stock:       5,
	})
	assert.NoError(t, err)
}

func TestGetProduct_CachesAfterMiss(t *testing.T) {
	p1 := newTestProduct(5)
	productRepo := newMockProductRepo(p1)
	productCache := newMockProductCache()

	sut := NewProductService(testLogger(), productRepo, productCache, &mockProducer{})

	got, err := sut.GetProduct(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, got.ID)

	_, err = sut.GetProduct(context.Background(), p1.ID)
	require.NoError(t, err)

	// the second read is served from cache
	assert.Equal(t, 1, productRepo.getCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	sut := NewProductService(testLogger(), newMockProductRepo(), newMockProductCache(), &mockProducer{})

	_, err := sut.GetProduct(context.Background(), primitive.NewObjectID())
	assert.Equal(t, apperr.ProductNotFoundCode, errorCode(t, err))
}

func TestGetProduct_CacheFailureFallsBack(t *testing.T) {
	p1 := newTestProduct(5)
	productCache := newMockProductCache()
	productCache.getErr = assert.AnError
	productCache.setErr = assert.AnError

	sut := NewProductService(testLogger(), newMockProductRepo(p1), productCache, &mockProducer{})

	got, err := sut.GetProduct(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, got.ID)
}

func TestUpdateProduct(t *testing.T) {
	p1 := newTestProduct(5)
	productCache := newMockProductCache()
	require.NoError(t, productCache.Set(context.Background(), &p1))

	sut := NewProductService(testLogger(), newMockProductRepo(p1), productCache, &mockProducer{})

	updated, err := sut.UpdateProduct(context.Background(), p1.ID, UpdateProductParams{
		Title: ptr.New("Pencil"),
		Stock: ptr.New(7),
	})
	require.NoError(t, err)

	assert.Equal(t, "Pencil", updated.Title)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, p1.Code, updated.Code)

	assert.Contains(t, productCache.deletes, p1.ID.Hex())
}

func TestUpdateProduct_NotFound(t *testing.T) {
	sut := NewProductService(testLogger(), newMockProductRepo(), newMockProductCache(), &mockProducer{})

	_, err := sut.UpdateProduct(context.Background(), primitive.NewObjectID(), UpdateProductParams{
		Title: ptr.New("Pencil"),
	})
	assert.Equal(t, apperr.ProductNotFoundCode, errorCode(t, err))
}

func TestDeleteProduct(t *testing.T) {
	p1 := newTestProduct(5)
	productRepo := newMockProductRepo(p1)
	productCache := newMockProductCache()

	sut := NewProductService(testLogger(), productRepo, productCache, &mockProducer{})

	deleted, err := sut.DeleteProduct(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, deleted.ID)

	_, err = productRepo.GetProduct(context.Background(), p1.ID)
	assert.Error(t, err)
	assert.Contains(t, productCache.deletes, p1.ID.Hex())
}

func TestDeleteProduct_NotFound(t *testing.T) {
	sut := NewProductService(testLogger(), newMockProductRepo(), newMockProductCache(), &mockProducer{})

	_, err := sut.DeleteProduct(context.Background(), primitive.NewObjectID())
	assert.Equal(t, apperr.ProductNotFoundCode, errorCode(t, err))
}

func TestListAllProducts(t *testing.T) {
	p1 := newTestProduct(5)
	p2 := newTestProduct(3)
	sut := NewProductService(testLogger(), newMockProductRepo(p1, p2), newMockProductCache(), &mockProducer{})

	products, err := sut.ListAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
