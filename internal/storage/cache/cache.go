package cache

import (
	"context"
	"errors"

	"github.com/tuanvumaihuynh/shop-backend/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache is a read-through cache for product documents.
type ProductCache interface {
	Get(ctx context.Context, id string) (*model.Product, error)
	Set(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}
