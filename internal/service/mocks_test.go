package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuanvumaihuynh/shop-backend/internal/model"
	"github.com/tuanvumaihuynh/shop-backend/internal/repository"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/cache"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/mq"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockProductRepo struct {
	m        sync.Mutex
	products map[primitive.ObjectID]model.Product
	err      error

	getCalls int
}

func newMockProductRepo(products ...model.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[primitive.ObjectID]model.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) CreateProduct(_ context.Context, product model.Product) (model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return model.Product{}, m.err
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	return product, nil
}

func (m *mockProductRepo) ListAllProducts(context.Context) ([]model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	products := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductRepo) ListProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *mockProductRepo) GetProduct(_ context.Context, id primitive.ObjectID) (model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return model.Product{}, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) UpdateProduct(_ context.Context, id primitive.ObjectID, params repository.UpdateProductParams) (model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return model.Product{}, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Code != nil {
		p.Code = *params.Code
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Stock != nil {
		p.Stock = *params.Stock
	}
	p.UpdatedAt = time.Now()
	m.products[id] = p
	return p, nil
}

func (m *mockProductRepo) DeleteProduct(_ context.Context, id primitive.ObjectID) (model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return model.Product{}, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	delete(m.products, id)
	return p, nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if p.Stock < qty {
		return 0, repository.ErrInsufficientStock
	}
	p.Stock -= qty
	m.products[id] = p
	return p.Stock, nil
}

func (m *mockProductRepo) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Stock += qty
	m.products[id] = p
	return nil
}

func (m *mockProductRepo) stockOf(id primitive.ObjectID) int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.products[id].Stock
}

type mockCartRepo struct {
	m     sync.Mutex
	carts map[primitive.ObjectID]model.Cart

	createErr error
	updateErr error
}

func newMockCartRepo(carts ...model.Cart) *mockCartRepo {
	m := &mockCartRepo{carts: make(map[primitive.ObjectID]model.Cart)}
	for _, c := range carts {
		m.carts[c.ID] = c
	}
	return m
}

func (m *mockCartRepo) CreateCart(_ context.Context, cart model.Cart) (model.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return model.Cart{}, m.createErr
	}
	cart.ID = primitive.NewObjectID()
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepo) GetCart(_ context.Context, id primitive.ObjectID) (model.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	c, ok := m.carts[id]
	if !ok {
		return model.Cart{}, repository.ErrCartNotFound
	}
	return c, nil
}

func (m *mockCartRepo) UpdateCartLines(_ context.Context, id primitive.ObjectID, lines []model.CartLine) (model.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.updateErr != nil {
		return model.Cart{}, m.updateErr
	}
	c, ok := m.carts[id]
	if !ok {
		return model.Cart{}, repository.ErrCartNotFound
	}
	c.Products = lines
	c.UpdatedAt = time.Now()
	m.carts[id] = c
	return c, nil
}

type mockProductCache struct {
	m        sync.Mutex
	products map[string]model.Product

	getErr  error
	setErr  error
	deletes []string
}

func newMockProductCache() *mockProductCache {
	return &mockProductCache{products: make(map[string]model.Product)}
}

func (m *mockProductCache) Get(_ context.Context, id string) (*model.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &p, nil
}

func (m *mockProductCache) Set(_ context.Context, product *model.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.products[product.ID.Hex()] = *product
	return nil
}

func (m *mockProductCache) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes = append(m.deletes, id)
	delete(m.products, id)
	return nil
}

type mockProducer struct {
	m    sync.Mutex
	msgs []mq.ProduceMsg
	err  error
}

func (m *mockProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mockProducer) produced() []mq.ProduceMsg {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]mq.ProduceMsg(nil), m.msgs...)
}
