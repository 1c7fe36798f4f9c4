package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/money"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

// evaluateCoupon runs the eligibility checks in order, short-circuiting on
// the first failure. It must be called with promo state already cleared so
// line item prices reflect only sale and base prices.
func (c *Cart) evaluateCoupon(cp *coupon.Coupon) *coupon.Ineligibility {
	if !cp.Usable(time.Now().UTC()) {
		return &coupon.Ineligibility{Code: coupon.ReasonNotUsable}
	}

	var cartAmount money.Money
	for _, li := range c.LineItems {
		cartAmount += li.Price()
	}
	if cp.MinPurchase > cartAmount {
		return &coupon.Ineligibility{
			Code:        coupon.ReasonMinPurchase,
			MinPurchase: cp.MinPurchase,
		}
	}

	if cp.HasItemGate() {
		eligible := 0
		for _, li := range c.LineItems {
			if cp.AppliesToItem(li.ProductID, li.Product.OnSale()) {
				eligible++
			}
		}
		if eligible == 0 {
			return &coupon.Ineligibility{Code: coupon.ReasonNoEligibleItems}
		}
	}
	return nil
}

// applyCoupon mutates promo state for an already-validated coupon. The per
// item types set promo unit prices from the effective price, so repeated
// application yields the same result. The discounted unit price is not
// clamped at zero; a flat discount larger than a cheap item's price goes
// negative.
func (c *Cart) applyCoupon(ctx context.Context, catalog product.Repository, cp *coupon.Coupon) error {
	switch cp.Type {
	case coupon.TypePerItemDiscount:
		var promoDiscount money.Money
		for _, li := range c.LineItems {
			if !cp.AppliesToItem(li.ProductID, li.Product.OnSale()) {
				continue
			}
			unit := li.Product.EffectiveUnitPrice() - cp.Amount
			li.PromoUnitPrice = &unit
			promoDiscount += cp.Amount.Mul(li.Quantity)
		}
		c.PromoDiscountAmount = promoDiscount

	case coupon.TypePerTotalDiscount:
		c.PromoAmount = cp.Amount
		c.PromoDiscountAmount = cp.Amount

	case coupon.TypePercentageDiscount:
		var promoDiscount money.Money
		for _, li := range c.LineItems {
			if !cp.AppliesToItem(li.ProductID, li.Product.OnSale()) {
				continue
			}
			reduction := li.Product.EffectiveUnitPrice().PercentOff(int64(cp.Amount))
			unit := li.Product.EffectiveUnitPrice() - reduction
			li.PromoUnitPrice = &unit
			promoDiscount += reduction.Mul(li.Quantity)
		}
		c.PromoDiscountAmount = promoDiscount

	case coupon.TypeGift:
		gifts, err := catalog.GetByIDs(ctx, cp.ProductIDs)
		if err != nil {
			return errors.Wrap(err, "resolve gift products")
		}
		c.CouponGifts = gifts

	default:
		return errors.Errorf("unsupported coupon type: %q", cp.Type)
	}
	return nil
}
