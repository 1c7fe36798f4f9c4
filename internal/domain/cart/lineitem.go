package cart

import (
	"github.com/google/uuid"

	"github.com/foodlavka/shop-api/internal/domain/money"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

// LineItem is one product plus quantity inside a cart or order. The embedded
// product snapshot is resolved once from the catalog and never refreshed.
type LineItem struct {
	ID        string `bson:"_id" json:"id"`
	ProductID string `bson:"product_id" json:"product_id"`
	// Quantity is always >= 1. An item whose quantity drops to zero is
	// removed from the cart, never persisted at zero.
	Quantity int `bson:"quantity" json:"quantity"`
	// PromoUnitPrice is the per-unit override set by coupon application.
	// Nil when no coupon touches this item.
	PromoUnitPrice *money.Money      `bson:"promo_price,omitempty" json:"promo_price,omitempty"`
	Product        *product.Snapshot `bson:"product,omitempty" json:"product,omitempty"`
}

// NewLineItem creates an unresolved line item for the given product.
func NewLineItem(productID string, quantity int) *LineItem {
	return &LineItem{
		ID:        uuid.New().String(),
		ProductID: productID,
		Quantity:  quantity,
	}
}

// BasePrice is the snapshot base price times quantity, before any discount.
func (li *LineItem) BasePrice() money.Money {
	return li.Product.Price.Mul(li.Quantity)
}

// Price is the line total the customer pays: the promo unit price when a
// coupon set a positive one, otherwise the effective (sale or base) price.
func (li *LineItem) Price() money.Money {
	if li.PromoUnitPrice != nil && *li.PromoUnitPrice > 0 {
		return li.PromoUnitPrice.Mul(li.Quantity)
	}
	return li.Product.EffectiveUnitPrice().Mul(li.Quantity)
}

// SaleDiscount is how much the catalog sale saves on this line.
func (li *LineItem) SaleDiscount() money.Money {
	if li.Product.OnSale() {
		return (li.Product.Price - *li.Product.SalePrice).Mul(li.Quantity)
	}
	return 0
}

// PromoDiscount is how much the applied coupon saves on this line. A zero
// promo price counts as unset, matching Price: the line charges full price
// and reports no discount.
func (li *LineItem) PromoDiscount() money.Money {
	if li.PromoUnitPrice == nil || *li.PromoUnitPrice == 0 {
		return 0
	}
	return (li.Product.EffectiveUnitPrice() - *li.PromoUnitPrice).Mul(li.Quantity)
}
