package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuanvumaihuynh/shop-backend/internal/model"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, 5*time.Minute), mr
}

func testProduct() *model.Product {
	return &model.Product{
		ID:          primitive.NewObjectID(),
		Title:       "Pen",
		Description: "Blue ballpoint pen",
		Code:        "P1",
		Price:       1,
		Stock:       5,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestRedisCache_GetSet(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	product := testProduct()
	require.NoError(t, c.Set(ctx, product))

	got, err := c.Get(ctx, product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, product.Title, got.Title)
	assert.Equal(t, product.Stock, got.Stock)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	_, err := c.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_GetCorruptValue(t *testing.T) {
	c, mr := setupTestRedis(t)

	id := primitive.NewObjectID().Hex()
	require.NoError(t, mr.Set(cacheKey(id), "not json"))

	_, err := c.Get(context.Background(), id)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	product := testProduct()
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey(product.ID.Hex()), string(data)))

	require.NoError(t, c.Delete(ctx, product.ID.Hex()))

	_, err = c.Get(ctx, product.ID.Hex())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetExpires(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	product := testProduct()
	require.NoError(t, c.Set(ctx, product))

	mr.FastForward(10 * time.Minute)

	_, err := c.Get(ctx, product.ID.Hex())
	assert.ErrorIs(t, err, ErrCacheMiss)
}
