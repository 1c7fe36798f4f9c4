// Package coupon defines coupon rules: what a coupon is, when it is usable
// at all, and which line items it can touch. The actual per-cart application
// lives in the cart aggregate, which owns the state a coupon mutates.
package coupon

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-faster/errors"

	"github.com/foodlavka/shop-api/internal/domain/money"
)

// Type enumerates the supported coupon discount strategies.
type Type string

const (
	// TypePerItemDiscount subtracts a flat amount from each eligible item's
	// unit price.
	TypePerItemDiscount Type = "per_item_discount"
	// TypePerTotalDiscount subtracts a flat amount once from the cart total.
	TypePerTotalDiscount Type = "per_total_discount"
	// TypePercentageDiscount reduces each eligible item's unit price by a
	// percentage, truncated to whole currency units.
	TypePercentageDiscount Type = "percentage_discount"
	// TypeGift attaches zero-charge gift products to the cart without
	// touching any price fields.
	TypeGift Type = "gift"
)

// ErrNotExist indicates no coupon matches the requested code.
var ErrNotExist = errors.New("coupon not exist")

// Coupon is a named discount rule. At most one coupon is attached to a cart
// at any time; attaching a new one replaces the previous.
type Coupon struct {
	ID          string `bson:"_id" json:"id"`
	Code        string `bson:"code" json:"code"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Type        Type   `bson:"type" json:"type"`
	// Amount is whole currency units, or percentage points when Type is
	// TypePercentageDiscount.
	Amount      money.Money `bson:"amount" json:"amount"`
	MinPurchase money.Money `bson:"min_purchase" json:"min_purchase"`
	Expires     *time.Time  `bson:"expires,omitempty" json:"expires,omitempty"`
	Enabled     bool        `bson:"enabled" json:"enabled"`
	// UsageLimit caps NumUses; zero means unlimited.
	UsageLimit       int       `bson:"usage_limit" json:"usage_limit"`
	NumUses          int       `bson:"num_uses" json:"num_uses"`
	ExcludeSaleItems bool      `bson:"exclude_sale_items" json:"exclude_sale_items"`
	ProductIDs       []string  `bson:"products_ids" json:"products_ids"`
	CategoryIDs      []string  `bson:"categories_ids,omitempty" json:"categories_ids,omitempty"`
	DateCreated      time.Time `bson:"date_created" json:"date_created"`
}

// Usable reports whether the coupon can be used at all: it must be enabled,
// not expired at the given instant, and under its usage limit.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.Expires != nil && !c.Expires.After(now) {
		return false
	}
	if c.UsageLimit > 0 && c.NumUses >= c.UsageLimit {
		return false
	}
	return true
}

// HasItemGate reports whether this coupon type only applies to specific
// line items. Per-total and gift coupons have no per-item eligibility gate.
func (c *Coupon) HasItemGate() bool {
	return c.Type == TypePerItemDiscount || c.Type == TypePercentageDiscount
}

// AppliesToItem reports whether a line item with the given product id and
// sale state qualifies for this coupon's per-item discount.
func (c *Coupon) AppliesToItem(productID string, onSale bool) bool {
	if !slices.Contains(c.ProductIDs, productID) {
		return false
	}
	if c.ExcludeSaleItems && onSale {
		return false
	}
	return true
}

// ReasonCode identifies why a coupon could not be applied. Codes are stable;
// clients branch on them and localize the message themselves.
type ReasonCode string

const (
	// ReasonNotUsable covers a disabled, expired, or used-up coupon.
	ReasonNotUsable ReasonCode = "coupon_not_usable"
	// ReasonMinPurchase means the cart amount is below the coupon threshold.
	ReasonMinPurchase ReasonCode = "min_purchase_not_met"
	// ReasonNoEligibleItems means no line item passes the per-item gate.
	ReasonNoEligibleItems ReasonCode = "no_eligible_items"
)

// Ineligibility explains a rejected coupon application. MinPurchase carries
// the threshold for ReasonMinPurchase so the presentation layer can embed it.
type Ineligibility struct {
	Code        ReasonCode  `json:"code"`
	MinPurchase money.Money `json:"min_purchase,omitempty"`
}

func (e *Ineligibility) Error() string {
	switch e.Code {
	case ReasonMinPurchase:
		return fmt.Sprintf("coupon requires a minimum purchase of %d", e.MinPurchase)
	case ReasonNoEligibleItems:
		return "no items in the cart are eligible for this coupon"
	default:
		return "coupon is not usable"
	}
}

// Repository provides coupon lookups by their customer-facing code.
// Implementations return ErrNotExist when the code is unknown.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	// IncrementUses bumps the usage counter after a successful checkout.
	IncrementUses(ctx context.Context, id string) error
}
