package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/tuanvumaihuynh/shop-backend/internal/apperr"
	"github.com/tuanvumaihuynh/shop-backend/internal/event"
	"github.com/tuanvumaihuynh/shop-backend/internal/model"
	"github.com/tuanvumaihuynh/shop-backend/internal/repository"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/cache"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/mq"
	"github.com/tuanvumaihuynh/shop-backend/pkg/ptr"
)

type CreateProductParams struct {
	Title       string
	Description string
	Code        string
	Price       float64
	Stock       int
}

type UpdateProductParams struct {
	Title       *string
	Description *string
	Code        *string
	Price       *float64
	Stock       *int
}

type ProductService interface {
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error)
}

type productService struct {
	logger       *slog.Logger
	productRepo  repository.ProductRepository
	productCache cache.ProductCache
	mqProducer   mq.Producer

	sfg singleflight.Group
}

func NewProductService(
	logger *slog.Logger,
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	mqProducer mq.Producer,
) ProductService {
	return &productService{
		logger:       logger.With(slog.String("service", "product")),
		productRepo:  productRepo,
		productCache: productCache,
		mqProducer:   mqProducer,
	}
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	// singleflight collapses concurrent cache misses for the same product
	// into one repository read.
	v, err, _ := s.sfg.Do(id.Hex(), func() (any, error) {
		if cached, cacheErr := s.productCache.Get(ctx, id.Hex()); cacheErr == nil {
			return *cached, nil
		} else if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "product cache get failed", slog.Any("error", cacheErr))
		}

		product, repoErr := s.productRepo.GetProduct(ctx, id)
		if repoErr != nil {
			if errors.Is(repoErr, repository.ErrProductNotFound) {
				return model.Product{}, apperr.ProductNotFoundErr.WrapParent(repoErr)
			}
			return model.Product{}, fmt.Errorf("product repository get product: %w", repoErr)
		}

		if cacheErr := s.productCache.Set(ctx, &product); cacheErr != nil {
			s.logger.WarnContext(ctx, "product cache set failed", slog.Any("error", cacheErr))
		}

		return product, nil
	})
	if err != nil {
		return model.Product{}, err
	}

	return v.(model.Product), nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	now := time.Now()
	product := model.Product{
		Title:       params.Title,
		Description: params.Description,
		Code:        params.Code,
		Price:       params.Price,
		Stock:       params.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	product, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	s.publishProductCreated(ctx, product)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id primitive.ObjectID, params UpdateProductParams) (model.Product, error) {
	product, err := s.productRepo.UpdateProduct(ctx, id, repository.UpdateProductParams{
		Title:       params.Title,
		Description: params.Description,
		Code:        params.Code,
		Price:       params.Price,
		Stock:       params.Stock,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	s.invalidateCache(ctx, id)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	// Carts referencing this product keep their lines; reads resolve them
	// to a null product.
	product, err := s.productRepo.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository delete product: %w", err)
	}

	s.invalidateCache(ctx, id)

	return product, nil
}

func (s *productService) invalidateCache(ctx context.Context, id primitive.ObjectID) {
	if err := s.productCache.Delete(ctx, id.Hex()); err != nil {
		s.logger.WarnContext(ctx, "product cache delete failed",
			slog.String("product_id", id.Hex()),
			slog.Any("error", err))
	}
}

func (s *productService) publishProductCreated(ctx context.Context, product model.Product) {
	ev := event.ProductCreatedEvent{
		ProductID: product.ID.Hex(),
		Title:     product.Title,
		Code:      product.Code,
		Price:     product.Price,
		Stock:     product.Stock,
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal product created event failed", slog.Any("error", err))
		return
	}

	if err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
		Topic:        event.TopicProductCreated,
		Headers:      mq.ContextHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(product.ID.Hex()),
	}); err != nil {
		// The product is already persisted; a lost event is logged, not
		// surfaced to the caller.
		s.logger.ErrorContext(ctx, "produce product created event failed",
			slog.String("product_id", product.ID.Hex()),
			slog.Any("error", err))
	}
}
