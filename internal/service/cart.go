package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuanvumaihuynh/shop-backend/internal/apperr"
	"github.com/tuanvumaihuynh/shop-backend/internal/event"
	"github.com/tuanvumaihuynh/shop-backend/internal/model"
	"github.com/tuanvumaihuynh/shop-backend/internal/repository"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/cache"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/mq"
	"github.com/tuanvumaihuynh/shop-backend/pkg/ptr"
)

type CartItemParams struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type CartService interface {
	// CreateCart reserves stock for every requested item and persists a new
	// cart. A failure on any item releases every reservation made so far,
	// so a failed creation decrements nothing.
	CreateCart(ctx context.Context, items []CartItemParams) (model.Cart, error)
	GetCart(ctx context.Context, id primitive.ObjectID) (model.ResolvedCart, error)
	AddProductToCart(ctx context.Context, cartID, productID primitive.ObjectID, quantity int) (model.Cart, error)
}

type cartService struct {
	logger       *slog.Logger
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	productCache cache.ProductCache
	mqProducer   mq.Producer
}

func NewCartService(
	logger *slog.Logger,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	mqProducer mq.Producer,
) CartService {
	return &cartService{
		logger:       logger.With(slog.String("service", "cart")),
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		productCache: productCache,
		mqProducer:   mqProducer,
	}
}

// reservation records one successful stock decrement so it can be released
// if a later step fails.
type reservation struct {
	productID primitive.ObjectID
	quantity  int
	remaining int
}

func (s *cartService) CreateCart(ctx context.Context, items []CartItemParams) (model.Cart, error) {
	if len(items) == 0 {
		return model.Cart{}, apperr.EmptyCartRequestErr
	}

	reserved := make([]reservation, 0, len(items))
	lines := make([]model.CartLine, 0, len(items))

	for _, item := range items {
		remaining, err := s.reserveStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.releaseReservations(ctx, reserved)
			return model.Cart{}, err
		}

		reserved = append(reserved, reservation{
			productID: item.ProductID,
			quantity:  item.Quantity,
			remaining: remaining,
		})
		lines = append(lines, model.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	now := time.Now()
	cart, err := s.cartRepo.CreateCart(ctx, model.Cart{
		Products:  lines,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.releaseReservations(ctx, reserved)
		return model.Cart{}, fmt.Errorf("cart repository create cart: %w", err)
	}

	for _, r := range reserved {
		s.publishStockReserved(ctx, cart.ID, r)
	}

	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, id primitive.ObjectID) (model.ResolvedCart, error) {
	cart, err := s.cartRepo.GetCart(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return model.ResolvedCart{}, apperr.CartNotFoundErr.WrapParent(err)
		}
		return model.ResolvedCart{}, fmt.Errorf("cart repository get cart: %w", err)
	}

	products, err := s.resolveProducts(ctx, cart.Products)
	if err != nil {
		return model.ResolvedCart{}, err
	}

	resolved := model.ResolvedCart{
		ID:        cart.ID,
		Products:  make([]model.ResolvedCartLine, 0, len(cart.Products)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Products {
		// A deleted product leaves a dangling line; it resolves to a null
		// product rather than an error.
		resolved.Products = append(resolved.Products, model.ResolvedCartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Product:   products[line.ProductID],
		})
	}

	return resolved, nil
}

func (s *cartService) AddProductToCart(ctx context.Context, cartID, productID primitive.ObjectID, quantity int) (model.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return model.Cart{}, apperr.CartNotFoundErr.WrapParent(err)
		}
		return model.Cart{}, fmt.Errorf("cart repository get cart: %w", err)
	}

	remaining, err := s.reserveStock(ctx, productID, quantity)
	if err != nil {
		return model.Cart{}, err
	}

	lines := upsertLine(cart.Products, productID, quantity)

	cart, err = s.cartRepo.UpdateCartLines(ctx, cartID, lines)
	if err != nil {
		s.releaseReservations(ctx, []reservation{{productID: productID, quantity: quantity}})
		if errors.Is(err, repository.ErrCartNotFound) {
			return model.Cart{}, apperr.CartNotFoundErr.WrapParent(err)
		}
		return model.Cart{}, fmt.Errorf("cart repository update cart lines: %w", err)
	}

	s.publishStockReserved(ctx, cart.ID, reservation{
		productID: productID,
		quantity:  quantity,
		remaining: remaining,
	})

	return cart, nil
}

// upsertLine increments an existing line for productID or appends a new one,
// preserving line order.
func upsertLine(lines []model.CartLine, productID primitive.ObjectID, quantity int) []model.CartLine {
	next := make([]model.CartLine, len(lines))
	copy(next, lines)

	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity += quantity
			return next
		}
	}

	return append(next, model.CartLine{ProductID: productID, Quantity: quantity})
}

func (s *cartService) reserveStock(ctx context.Context, productID primitive.ObjectID, quantity int) (int, error) {
	remaining, err := s.productRepo.DecrementStock(ctx, productID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return 0, apperr.ProductNotFoundErr.WrapParent(err)
		case errors.Is(err, repository.ErrInsufficientStock):
			return 0, apperr.InsufficientStockErr.WrapParent(err)
		default:
			return 0, fmt.Errorf("product repository decrement stock: %w", err)
		}
	}

	s.invalidateProductCache(ctx, productID)

	return remaining, nil
}

func (s *cartService) releaseReservations(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.productRepo.IncrementStock(ctx, r.productID, r.quantity); err != nil {
			s.logger.ErrorContext(ctx, "release stock reservation failed",
				slog.String("product_id", r.productID.Hex()),
				slog.Int("quantity", r.quantity),
				slog.Any("error", err))
			continue
		}
		s.invalidateProductCache(ctx, r.productID)
	}
}

// resolveProducts fetches current product documents for the given lines,
// cache first, then one query for the misses.
func (s *cartService) resolveProducts(ctx context.Context, lines []model.CartLine) (map[primitive.ObjectID]*model.Product, error) {
	products := make(map[primitive.ObjectID]*model.Product, len(lines))

	missing := make([]primitive.ObjectID, 0, len(lines))
	for _, line := range lines {
		if _, seen := products[line.ProductID]; seen {
			continue
		}

		cached, err := s.productCache.Get(ctx, line.ProductID.Hex())
		if err == nil {
			products[line.ProductID] = cached
			continue
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "product cache get failed", slog.Any("error", err))
		}
		missing = append(missing, line.ProductID)
	}

	if len(missing) > 0 {
		fetched, err := s.productRepo.ListProductsByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("product repository list products by ids: %w", err)
		}

		for i := range fetched {
			product := fetched[i]
			products[product.ID] = &product

			if err := s.productCache.Set(ctx, &product); err != nil {
				s.logger.WarnContext(ctx, "product cache set failed", slog.Any("error", err))
			}
		}
	}

	return products, nil
}

func (s *cartService) invalidateProductCache(ctx context.Context, productID primitive.ObjectID) {
	if err := s.productCache.Delete(ctx, productID.Hex()); err != nil {
		s.logger.WarnContext(ctx, "product cache delete failed",
			slog.String("product_id", productID.Hex()),
			slog.Any("error", err))
	}
}

func (s *cartService) publishStockReserved(ctx context.Context, cartID primitive.ObjectID, r reservation) {
	ev := event.StockReservedEvent{
		CartID:         cartID.Hex(),
		ProductID:      r.productID.Hex(),
		Quantity:       r.quantity,
		RemainingStock: r.remaining,
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal stock reserved event failed", slog.Any("error", err))
		return
	}

	if err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
		Topic:        event.TopicStockReserved,
		Headers:      mq.ContextHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(r.productID.Hex()),
	}); err != nil {
		s.logger.ErrorContext(ctx, "produce stock reserved event failed",
			slog.String("product_id", r.productID.Hex()),
			slog.Any("error", err))
	}
}
