package service

import (
	"context"
	"sync"

	"glowbook/internal/cart/repository"
	"glowbook/internal/cart/validator"
	"glowbook/pkg/client"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/model"

	"github.com/google/uuid"
)

// CatalogSource looks up a bookable service. A nil result with nil error
// means the catalog does not know the service.
type CatalogSource interface {
	GetService(ctx context.Context, serviceID string) (*client.CatalogService, error)
}

// Observer is notified after every successful cart mutation.
type Observer interface {
	CartUpdated(ctx context.Context, cart *model.Cart)
}

type CartService interface {
	GetCart(ctx context.Context, customerID string) (*model.Cart, error)
	AddItem(ctx context.Context, customerID, serviceID string, quantity int) (*model.Cart, error)
	IncrementQuantity(ctx context.Context, customerID, itemID string) (*model.Cart, error)
	DecrementQuantity(ctx context.Context, customerID, itemID string) (*model.Cart, error)
	RemoveItem(ctx context.Context, customerID, itemID string) (*model.Cart, error)
	Clear(ctx context.Context, customerID string) error
	FlagStale(ctx context.Context, customerID string) error
	RegisterObserver(obs Observer)
}

type cartService struct {
	repo      repository.CartRepository
	catalog   CatalogSource
	validator *validator.CartValidator
	cfg       *config.Config

	mu        sync.RWMutex
	observers []Observer
}

func NewCartService(
	repo repository.CartRepository,
	catalog CatalogSource,
	validator *validator.CartValidator,
	cfg *config.Config,
) CartService {
	return &cartService{
		repo:      repo,
		catalog:   catalog,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *cartService) RegisterObserver(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

func (s *cartService) notify(ctx context.Context, cart *model.Cart) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, obs := range observers {
		obs.CartUpdated(ctx, cart)
	}
}

// GetCart returns the customer's cart, first sweeping away a cart left stale
// by a completed booking whose clear failed.
func (s *cartService) GetCart(ctx context.Context, customerID string) (*model.Cart, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	cart, err := s.repo.Get(ctx, customerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load cart", err)
	}

	if cart.Stale {
		if err := s.repo.Clear(ctx, customerID); err != nil {
			s.cfg.Log.Warn("Stale cart cleanup failed, will retry on next read",
				"customer_id", customerID,
				"error", err,
			)
		} else {
			s.cfg.Log.Info("Stale cart cleared", "customer_id", customerID)
		}
		return &model.Cart{CustomerID: customerID, Items: []model.CartItem{}}, nil
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, customerID, serviceID string, quantity int) (*model.Cart, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}
	if serviceID == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}
	if quantity <= 0 {
		quantity = 1
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, apperrors.Internal("Failed to look up service", err)
	}
	if svc == nil {
		return nil, apperrors.NotFoundWithID("Service", serviceID)
	}

	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// One vendor per cart. Mixing vendors would mean a single appointment
	// spanning two venues.
	if !cart.IsEmpty() && cart.VendorID() != svc.VendorID {
		return nil, apperrors.VendorMismatch(cart.VendorID(), svc.VendorID)
	}

	if cart.HasService(serviceID) {
		return nil, apperrors.Conflict("Service is already in the cart")
	}

	item := model.CartItem{
		ID:              uuid.NewString(),
		VendorID:        svc.VendorID,
		VendorName:      svc.VendorName,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		PlanName:        svc.PlanName,
		CategoryName:    svc.CategoryName,
		DurationMinutes: svc.DurationMinutes,
		UnitPrice:       svc.Price,
		Quantity:        quantity,
		Description:     svc.Description,
	}

	if err := s.validator.ValidateItem(&item); err != nil {
		return nil, apperrors.Validation("Service cannot be added to the cart", map[string]any{
			"reason": err.Error(),
		})
	}

	cart.Items = append(cart.Items, item)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Failed to save cart", err)
	}

	s.cfg.Log.Info("Cart item added",
		"customer_id", customerID,
		"service_id", serviceID,
		"vendor_id", svc.VendorID,
		"item_count", cart.ItemCount(),
	)
	s.notify(ctx, cart)
	return cart, nil
}

func (s *cartService) IncrementQuantity(ctx context.Context, customerID, itemID string) (*model.Cart, error) {
	return s.adjustQuantity(ctx, customerID, itemID, 1)
}

// DecrementQuantity lowers an item's quantity; at quantity one it removes
// the item entirely.
func (s *cartService) DecrementQuantity(ctx context.Context, customerID, itemID string) (*model.Cart, error) {
	return s.adjustQuantity(ctx, customerID, itemID, -1)
}

func (s *cartService) adjustQuantity(ctx context.Context, customerID, itemID string, delta int) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, item := range cart.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NotFoundWithID("Cart item", itemID)
	}

	next := cart.Items[idx].Quantity + delta
	if next <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = next
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Failed to save cart", err)
	}

	s.notify(ctx, cart)
	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, customerID, itemID string) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, item := range cart.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NotFoundWithID("Cart item", itemID)
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Failed to save cart", err)
	}

	s.cfg.Log.Info("Cart item removed", "customer_id", customerID, "item_id", itemID)
	s.notify(ctx, cart)
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, customerID string) error {
	if err := s.repo.Clear(ctx, customerID); err != nil {
		return apperrors.CartClear(err)
	}

	s.cfg.Log.Info("Cart cleared", "customer_id", customerID)
	s.notify(ctx, &model.Cart{CustomerID: customerID, Items: []model.CartItem{}})
	return nil
}

// FlagStale marks a cart for cleanup after a completed booking whose clear
// failed. The next read sweeps it.
func (s *cartService) FlagStale(ctx context.Context, customerID string) error {
	if err := s.repo.SetStale(ctx, customerID, true); err != nil {
		return apperrors.Internal("Failed to flag cart as stale", err)
	}
	return nil
}
