// Package cart implements the cart aggregate: line items, the single
// attached coupon, and the derived amount fields. The amount fields are
// caches over the line items and coupon; RecomputeAmounts is the one
// entrypoint that refreshes them.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/money"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

var (
	// ErrNotExist indicates the requested cart was not found.
	ErrNotExist = errors.New("cart not exist")
	// ErrAlreadyExists indicates a cart already exists for the session.
	ErrAlreadyExists = errors.New("cart already exist")
	// ErrLineItemNotExist indicates the cart holds no line item with the
	// requested id.
	ErrLineItemNotExist = errors.New("line item not exist")
)

// Cart owns an ordered list of line items and at most one coupon. The five
// amount fields are recomputed caches, never independent state.
type Cart struct {
	ID           string      `bson:"_id" json:"id"`
	UserID       string      `bson:"user_id,omitempty" json:"user_id,omitempty"`
	SessionID    string      `bson:"session_id,omitempty" json:"session_id,omitempty"`
	CustomerID   string      `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	DateCreated  time.Time   `bson:"date_created" json:"date_created"`
	DateModified time.Time   `bson:"date_modified" json:"date_modified"`
	LineItems    []*LineItem `bson:"line_items" json:"line_items"`

	// Coupon is the single attached coupon; setting a new one replaces it.
	Coupon      *coupon.Coupon     `bson:"coupon,omitempty" json:"coupon,omitempty"`
	CouponGifts []product.Snapshot `bson:"coupon_gifts" json:"coupon_gifts"`

	BaseAmount     money.Money `bson:"base_amount" json:"base_amount"`
	DiscountAmount money.Money `bson:"discount_amount" json:"discount_amount"`
	// PromoDiscountAmount is what the coupon application reported, kept
	// separate from the per-line sums.
	PromoDiscountAmount money.Money `bson:"promo_discount_amount" json:"promo_discount_amount"`
	// PromoAmount is the flat reduction of a per-total coupon, subtracted
	// once from the total.
	PromoAmount money.Money `bson:"promo_amount" json:"promo_amount"`
	TotalAmount money.Money `bson:"total_amount" json:"total_amount"`
}

// New creates an empty cart with fresh per-instance containers.
func New() *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:           uuid.New().String(),
		DateCreated:  now,
		DateModified: now,
		LineItems:    []*LineItem{},
		CouponGifts:  []product.Snapshot{},
	}
}

func (c *Cart) findLineItem(id string) *LineItem {
	for _, li := range c.LineItems {
		if li.ID == id {
			return li
		}
	}
	return nil
}

func (c *Cart) findByProduct(productID string) *LineItem {
	for _, li := range c.LineItems {
		if li.ProductID == productID {
			return li
		}
	}
	return nil
}

func (c *Cart) removeItem(li *LineItem) {
	for i, it := range c.LineItems {
		if it == li {
			c.LineItems = append(c.LineItems[:i], c.LineItems[i+1:]...)
			return
		}
	}
}

// AddLineItem merges the quantity into an existing line item for the same
// product, otherwise resolves a catalog snapshot and appends a new line.
// Returns product.ErrNotExist when the catalog lookup misses.
func (c *Cart) AddLineItem(ctx context.Context, catalog product.Repository, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if li := c.findByProduct(productID); li != nil {
		li.Quantity += quantity
		return nil
	}
	snap, err := catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotExist) {
			return product.ErrNotExist
		}
		return errors.Wrapf(err, "resolve product %s", productID)
	}
	li := NewLineItem(productID, quantity)
	li.Product = snap
	c.LineItems = append(c.LineItems, li)
	return nil
}

// RemoveLineItemQuantity decrements the item's quantity by one, removing the
// line entirely when the last unit goes.
func (c *Cart) RemoveLineItemQuantity(lineItemID string) error {
	li := c.findLineItem(lineItemID)
	if li == nil {
		return ErrLineItemNotExist
	}
	if li.Quantity <= 1 {
		c.removeItem(li)
		return nil
	}
	li.Quantity--
	return nil
}

// RemoveLineItem removes the line item regardless of quantity.
func (c *Cart) RemoveLineItem(lineItemID string) error {
	li := c.findLineItem(lineItemID)
	if li == nil {
		return ErrLineItemNotExist
	}
	c.removeItem(li)
	return nil
}

// UpdateLineItem sets the item's quantity; a quantity below one removes the
// line item.
func (c *Cart) UpdateLineItem(lineItemID string, quantity int) error {
	li := c.findLineItem(lineItemID)
	if li == nil {
		return ErrLineItemNotExist
	}
	if quantity < 1 {
		c.removeItem(li)
		return nil
	}
	li.Quantity = quantity
	return nil
}

// SetCoupon replaces any attached coupon, clears the previous promo state,
// and recomputes amounts immediately so callers always observe either
// accepted or rejected state. A non-nil Ineligibility means the coupon was
// rejected and detached.
func (c *Cart) SetCoupon(ctx context.Context, catalog product.Repository, cp *coupon.Coupon) (*coupon.Ineligibility, error) {
	c.clearPromoState()
	c.Coupon = cp
	return c.RecomputeAmounts(ctx, catalog)
}

// ClearCoupon detaches the coupon and wipes all promo state.
func (c *Cart) ClearCoupon() {
	c.Coupon = nil
	c.clearPromoState()
}

// clearPromoState resets every coupon-derived field without touching the
// attached coupon itself.
func (c *Cart) clearPromoState() {
	for _, li := range c.LineItems {
		li.PromoUnitPrice = nil
	}
	c.PromoDiscountAmount = 0
	c.PromoAmount = 0
	c.CouponGifts = []product.Snapshot{}
}

// RecomputeAmounts is the single authoritative recomputation entrypoint.
// Promo prices are re-derived from scratch on every call, which makes the
// whole computation idempotent. When an attached coupon turns out to be
// ineligible it is detached, all promo state is wiped, and the reason is
// returned; the cart never keeps a partially applied coupon.
func (c *Cart) RecomputeAmounts(ctx context.Context, catalog product.Repository) (*coupon.Ineligibility, error) {
	var rejected *coupon.Ineligibility
	if c.Coupon != nil {
		cp := c.Coupon
		c.clearPromoState()
		if reason := c.evaluateCoupon(cp); reason != nil {
			c.ClearCoupon()
			rejected = reason
		} else if err := c.applyCoupon(ctx, catalog, cp); err != nil {
			return nil, err
		}
	}

	var base, discount, promo money.Money
	for _, li := range c.LineItems {
		base += li.BasePrice()
		discount += li.SaleDiscount()
		promo += li.PromoDiscount()
	}
	total := base - discount - promo
	if c.PromoAmount > 0 {
		total -= c.PromoAmount
	}

	c.BaseAmount = base
	c.DiscountAmount = discount
	c.TotalAmount = total
	return rejected, nil
}

// SetModified refreshes the modification timestamp.
func (c *Cart) SetModified() {
	c.DateModified = time.Now().UTC()
}
