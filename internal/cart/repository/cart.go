package repository

import (
	"context"
	"sync"
	"time"

	"glowbook/pkg/model"
)

// CartRepository persists one cart per customer. Get returns an empty cart
// rather than an error when the customer has none yet.
type CartRepository interface {
	Get(ctx context.Context, customerID string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Clear(ctx context.Context, customerID string) error
	SetStale(ctx context.Context, customerID string, stale bool) error
}

type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{
		carts: make(map[string]*model.Cart),
	}
}

func (r *memoryCartRepository) Get(ctx context.Context, customerID string) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[customerID]
	if !ok {
		return &model.Cart{CustomerID: customerID, Items: []model.CartItem{}}, nil
	}
	return cart.Clone(), nil
}

func (r *memoryCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cart.Clone()
	stored.UpdatedAt = time.Now().UTC()
	r.carts[cart.CustomerID] = stored
	return nil
}

func (r *memoryCartRepository) Clear(ctx context.Context, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, customerID)
	return nil
}

func (r *memoryCartRepository) SetStale(ctx context.Context, customerID string, stale bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID]
	if !ok {
		return nil
	}
	cart.Stale = stale
	return nil
}
