package cart

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

// Repository defines persistence operations for carts. An Update applies to
// the document state at the time of the call and returns the post-update
// document; there is no version check, so two concurrent mutations of the
// same cart can overwrite each other. That matches the persistence model
// this service inherits.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Cart, error)
	GetBySession(ctx context.Context, sessionID string) (*Cart, error)
	Insert(ctx context.Context, c *Cart) error
	Update(ctx context.Context, c *Cart) (*Cart, error)
	Delete(ctx context.Context, id string) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

// ErrCacheMiss is returned by SessionCache when no cart is cached for the
// session.
var ErrCacheMiss = errors.New("cache miss")

// SessionCache caches carts keyed by session id. Cache failures never fail
// the triggering operation.
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Set(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// NewItem is a cart line item submission: a product reference and quantity.
type NewItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Service exposes the cart operations the API layer consumes.
type Service struct {
	carts   Repository
	catalog product.Repository
	coupons coupon.Repository
	cache   SessionCache
	lg      *zap.Logger
}

// NewService creates a cart Service with the required dependencies.
func NewService(
	carts Repository,
	catalog product.Repository,
	coupons coupon.Repository,
	cache SessionCache,
	lg *zap.Logger,
) *Service {
	return &Service{
		carts:   carts,
		catalog: catalog,
		coupons: coupons,
		cache:   cache,
		lg:      lg,
	}
}

// CreateCart creates the session's cart from the submitted items. Returns
// ErrAlreadyExists when the session already owns a cart.
func (s *Service) CreateCart(ctx context.Context, sessionID string, items []NewItem) (*Cart, error) {
	if _, err := s.carts.GetBySession(ctx, sessionID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotExist) {
		return nil, errors.Wrap(err, "check session cart")
	}

	c := New()
	c.SessionID = sessionID
	for _, item := range items {
		if err := c.AddLineItem(ctx, s.catalog, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	if _, err := c.RecomputeAmounts(ctx, s.catalog); err != nil {
		return nil, err
	}
	if err := s.carts.Insert(ctx, c); err != nil {
		return nil, errors.Wrap(err, "insert cart")
	}
	s.cacheSet(ctx, c)
	return c, nil
}

// GetCartBySession returns the session's cart, reading through the cache.
func (s *Service) GetCartBySession(ctx context.Context, sessionID string) (*Cart, error) {
	if cached, err := s.cache.Get(ctx, sessionID); err == nil {
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.lg.Warn("cart cache read failed", zap.Error(err))
	}

	c, err := s.carts.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, c)
	return c, nil
}

// GetCartByID returns the cart with the given id.
func (s *Service) GetCartByID(ctx context.Context, cartID string) (*Cart, error) {
	return s.carts.GetByID(ctx, cartID)
}

// AddLineItems adds the submitted items to the cart and persists the
// recomputed state.
func (s *Service) AddLineItems(ctx context.Context, cartID string, items []NewItem) (*Cart, error) {
	return s.mutate(ctx, cartID, func(ctx context.Context, c *Cart) error {
		for _, item := range items {
			if err := c.AddLineItem(ctx, s.catalog, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateLineItem sets a line item's quantity; below one the item is removed.
func (s *Service) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, cartID, func(_ context.Context, c *Cart) error {
		return c.UpdateLineItem(lineItemID, quantity)
	})
}

// RemoveLineItem removes a line item regardless of its quantity.
func (s *Service) RemoveLineItem(ctx context.Context, cartID, lineItemID string) (*Cart, error) {
	return s.mutate(ctx, cartID, func(_ context.Context, c *Cart) error {
		return c.RemoveLineItem(lineItemID)
	})
}

// RemoveLineItemQuantity removes one unit of a line item.
func (s *Service) RemoveLineItemQuantity(ctx context.Context, cartID, lineItemID string) (*Cart, error) {
	return s.mutate(ctx, cartID, func(_ context.Context, c *Cart) error {
		return c.RemoveLineItemQuantity(lineItemID)
	})
}

// DeleteCart removes the cart and its cache entry.
func (s *Service) DeleteCart(ctx context.Context, cartID string) error {
	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return err
	}
	if err := s.carts.Delete(ctx, cartID); err != nil {
		return err
	}
	s.cacheDelete(ctx, c.SessionID)
	return nil
}

// ApplyCoupon looks the coupon up by code and attaches it to the cart. When
// the coupon is ineligible it is detached again, the cart is persisted in
// its fully reset state, and the structured reason is returned alongside the
// cart.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) (*Cart, *coupon.Ineligibility, error) {
	cp, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}
	rejected, err := c.SetCoupon(ctx, s.catalog, cp)
	if err != nil {
		return nil, nil, err
	}
	c.SetModified()
	updated, err := s.carts.Update(ctx, c)
	if err != nil {
		return nil, nil, errors.Wrap(err, "update cart")
	}
	s.cacheSet(ctx, updated)
	return updated, rejected, nil
}

// RemoveCoupon detaches the cart's coupon and clears all promo state.
func (s *Service) RemoveCoupon(ctx context.Context, cartID string) (*Cart, error) {
	return s.mutate(ctx, cartID, func(_ context.Context, c *Cart) error {
		c.ClearCoupon()
		return nil
	})
}

// mutate loads the cart, applies fn, recomputes amounts, persists, and
// refreshes the cache.
func (s *Service) mutate(ctx context.Context, cartID string, fn func(context.Context, *Cart) error) (*Cart, error) {
	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, c); err != nil {
		return nil, err
	}
	if _, err := c.RecomputeAmounts(ctx, s.catalog); err != nil {
		return nil, err
	}
	c.SetModified()
	updated, err := s.carts.Update(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "update cart")
	}
	s.cacheSet(ctx, updated)
	return updated, nil
}

func (s *Service) cacheSet(ctx context.Context, c *Cart) {
	if c.SessionID == "" {
		return
	}
	if err := s.cache.Set(ctx, c.SessionID, c); err != nil {
		s.lg.Warn("cart cache write failed", zap.Error(err))
	}
}

func (s *Service) cacheDelete(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.lg.Warn("cart cache delete failed", zap.Error(err))
	}
}
