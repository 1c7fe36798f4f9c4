package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/money"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

// --- Mock implementations ---

type mockCatalog struct {
	byID map[string]product.Snapshot
}

func (m *mockCatalog) GetByID(_ context.Context, id string) (*product.Snapshot, error) {
	snap, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotExist
	}
	return &snap, nil
}

func (m *mockCatalog) GetByIDs(_ context.Context, ids []string) ([]product.Snapshot, error) {
	var out []product.Snapshot
	for _, id := range ids {
		if snap, ok := m.byID[id]; ok {
			out = append(out, snap)
		}
	}
	return out, nil
}

// --- Helpers ---

func newTestProduct(id string, price money.Money, salePrice *money.Money) product.Snapshot {
	return product.Snapshot{
		ID:        id,
		Name:      "product " + id,
		Price:     price,
		SalePrice: salePrice,
	}
}

func newCatalog(products ...product.Snapshot) *mockCatalog {
	byID := make(map[string]product.Snapshot, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockCatalog{byID: byID}
}

func mustAdd(t *testing.T, c *Cart, catalog product.Repository, productID string, quantity int) {
	t.Helper()
	require.NoError(t, c.AddLineItem(context.Background(), catalog, productID, quantity))
}

func perItemCoupon(amount money.Money, productIDs ...string) *coupon.Coupon {
	return &coupon.Coupon{
		ID:         "cp-item",
		Code:       "ITEM",
		Type:       coupon.TypePerItemDiscount,
		Amount:     amount,
		Enabled:    true,
		ProductIDs: productIDs,
	}
}

// --- Tests ---

func TestAddLineItem(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()

	mustAdd(t, c, catalog, "p1", 2)
	require.Len(t, c.LineItems, 1)
	assert.Equal(t, 2, c.LineItems[0].Quantity)
	require.NotNil(t, c.LineItems[0].Product)
	assert.Equal(t, money.Money(500), c.LineItems[0].Product.Price)

	// Same product merges into the existing line.
	mustAdd(t, c, catalog, "p1", 3)
	require.Len(t, c.LineItems, 1)
	assert.Equal(t, 5, c.LineItems[0].Quantity)
}

func TestAddLineItem_UnknownProduct(t *testing.T) {
	c := New()
	err := c.AddLineItem(context.Background(), newCatalog(), "missing", 1)
	require.ErrorIs(t, err, product.ErrNotExist)
	assert.Empty(t, c.LineItems)
}

func TestRemoveLineItemQuantity(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 2)
	id := c.LineItems[0].ID

	// Non-last unit only decrements.
	require.NoError(t, c.RemoveLineItemQuantity(id))
	require.Len(t, c.LineItems, 1)
	assert.Equal(t, 1, c.LineItems[0].Quantity)

	// Last unit removes the line entirely.
	require.NoError(t, c.RemoveLineItemQuantity(id))
	assert.Empty(t, c.LineItems)

	require.ErrorIs(t, c.RemoveLineItemQuantity(id), ErrLineItemNotExist)
}

func TestUpdateLineItem(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 2)
	id := c.LineItems[0].ID

	require.NoError(t, c.UpdateLineItem(id, 7))
	assert.Equal(t, 7, c.LineItems[0].Quantity)

	// Quantity below one removes the item.
	require.NoError(t, c.UpdateLineItem(id, 0))
	assert.Empty(t, c.LineItems)

	require.ErrorIs(t, c.UpdateLineItem("nope", 1), ErrLineItemNotExist)
}

func TestRecomputeAmounts_NoCoupon(t *testing.T) {
	catalog := newCatalog(
		newTestProduct("p1", 500, nil),
		newTestProduct("p2", 650, money.Ptr(590)),
	)
	c := New()
	mustAdd(t, c, catalog, "p1", 2)
	mustAdd(t, c, catalog, "p2", 1)

	rejected, err := c.RecomputeAmounts(context.Background(), catalog)
	require.NoError(t, err)
	assert.Nil(t, rejected)

	assert.Equal(t, money.Money(1650), c.BaseAmount)
	assert.Equal(t, money.Money(60), c.DiscountAmount)
	assert.Equal(t, money.Money(0), c.PromoDiscountAmount)
	assert.Equal(t, money.Money(1590), c.TotalAmount)
}

func TestRecomputeAmounts_PerItemDiscount(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	rejected, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(100, "p1"))
	require.NoError(t, err)
	require.Nil(t, rejected)

	assert.Equal(t, money.Money(300), c.PromoDiscountAmount)
	assert.Equal(t, money.Money(1200), c.TotalAmount)
	require.NotNil(t, c.LineItems[0].PromoUnitPrice)
	assert.Equal(t, money.Money(400), *c.LineItems[0].PromoUnitPrice)
}

func TestRecomputeAmounts_PerItemDiscount_NonQualifyingUntouched(t *testing.T) {
	catalog := newCatalog(
		newTestProduct("p1", 500, nil),
		newTestProduct("p2", 300, nil),
	)
	c := New()
	mustAdd(t, c, catalog, "p1", 2)
	mustAdd(t, c, catalog, "p2", 4)

	rejected, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(100, "p1"))
	require.NoError(t, err)
	require.Nil(t, rejected)

	assert.Equal(t, money.Money(200), c.PromoDiscountAmount)
	assert.NotNil(t, c.LineItems[0].PromoUnitPrice)
	assert.Nil(t, c.LineItems[1].PromoUnitPrice)
	assert.Equal(t, money.Money(2200-200), c.TotalAmount)
}

func TestRecomputeAmounts_PerItemDiscount_ExcludesSaleItems(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 650, money.Ptr(590)))
	c := New()
	mustAdd(t, c, catalog, "p1", 1)

	cp := perItemCoupon(100, "p1")
	cp.ExcludeSaleItems = true

	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.NotNil(t, rejected)
	assert.Equal(t, coupon.ReasonNoEligibleItems, rejected.Code)
	assert.Nil(t, c.Coupon)
}

func TestRecomputeAmounts_PercentageDiscount(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	cp := &coupon.Coupon{
		ID:         "cp-pct",
		Code:       "PCT10",
		Type:       coupon.TypePercentageDiscount,
		Amount:     10,
		Enabled:    true,
		ProductIDs: []string{"p1"},
	}
	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.Nil(t, rejected)

	// floor(500*10/100) = 50 per unit.
	assert.Equal(t, money.Money(150), c.PromoDiscountAmount)
	assert.Equal(t, money.Money(1350), c.TotalAmount)
	assert.Equal(t, money.Money(450), *c.LineItems[0].PromoUnitPrice)
}

func TestRecomputeAmounts_PercentageDiscount_TruncatesDown(t *testing.T) {
	// 15% of 199 is 29.85; the reduction must truncate to 29, not round.
	catalog := newCatalog(newTestProduct("p1", 199, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 1)

	cp := &coupon.Coupon{
		ID:         "cp-pct",
		Code:       "PCT15",
		Type:       coupon.TypePercentageDiscount,
		Amount:     15,
		Enabled:    true,
		ProductIDs: []string{"p1"},
	}
	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.Nil(t, rejected)

	assert.Equal(t, money.Money(29), c.PromoDiscountAmount)
	assert.Equal(t, money.Money(170), *c.LineItems[0].PromoUnitPrice)
}

func TestRecomputeAmounts_PerTotalDiscount(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	cp := &coupon.Coupon{
		ID:          "cp-total",
		Code:        "TOTAL200",
		Type:        coupon.TypePerTotalDiscount,
		Amount:      200,
		MinPurchase: 1000,
		Enabled:     true,
	}
	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.Nil(t, rejected)

	assert.Equal(t, money.Money(200), c.PromoAmount)
	assert.Equal(t, money.Money(200), c.PromoDiscountAmount)
	// Subtracted exactly once from the total.
	assert.Equal(t, money.Money(1300), c.TotalAmount)
}

func TestRecomputeAmounts_Gift(t *testing.T) {
	catalog := newCatalog(
		newTestProduct("p1", 500, nil),
		newTestProduct("gift", 180, nil),
	)
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	cp := &coupon.Coupon{
		ID:         "cp-gift",
		Code:       "FREEBIE",
		Type:       coupon.TypeGift,
		Enabled:    true,
		ProductIDs: []string{"gift", "unknown"},
	}
	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.Nil(t, rejected)

	// Gifts never touch price fields; unknown gift ids are skipped.
	require.Len(t, c.CouponGifts, 1)
	assert.Equal(t, "gift", c.CouponGifts[0].ID)
	assert.Equal(t, money.Money(1500), c.TotalAmount)
	assert.Equal(t, money.Money(0), c.PromoDiscountAmount)
}

func TestSetCoupon_MinPurchaseNotMet(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 1000, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	cp := &coupon.Coupon{
		ID:          "cp-min",
		Code:        "BIGSPENDER",
		Type:        coupon.TypePerTotalDiscount,
		Amount:      500,
		MinPurchase: 5000,
		Enabled:     true,
	}
	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.NotNil(t, rejected)
	assert.Equal(t, coupon.ReasonMinPurchase, rejected.Code)
	assert.Equal(t, money.Money(5000), rejected.MinPurchase)

	// Full reset: no coupon, no promo state, amounts as without a coupon.
	assert.Nil(t, c.Coupon)
	assert.Equal(t, money.Money(0), c.PromoAmount)
	assert.Equal(t, money.Money(0), c.PromoDiscountAmount)
	assert.Equal(t, money.Money(3000), c.TotalAmount)
}

func TestSetCoupon_NotUsable(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))

	expired := time.Now().UTC().Add(-time.Hour)
	for _, tt := range []struct {
		name   string
		coupon *coupon.Coupon
	}{
		{
			name:   "disabled",
			coupon: &coupon.Coupon{ID: "c1", Type: coupon.TypePerTotalDiscount, Amount: 100, Enabled: false},
		},
		{
			name:   "expired",
			coupon: &coupon.Coupon{ID: "c2", Type: coupon.TypePerTotalDiscount, Amount: 100, Enabled: true, Expires: &expired},
		},
		{
			name:   "used up",
			coupon: &coupon.Coupon{ID: "c3", Type: coupon.TypePerTotalDiscount, Amount: 100, Enabled: true, UsageLimit: 5, NumUses: 5},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			mustAdd(t, c, catalog, "p1", 1)

			rejected, err := c.SetCoupon(context.Background(), catalog, tt.coupon)
			require.NoError(t, err)
			require.NotNil(t, rejected)
			assert.Equal(t, coupon.ReasonNotUsable, rejected.Code)
			assert.Nil(t, c.Coupon)
		})
	}
}

func TestSetCoupon_ReplacesPrevious(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	rejected, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(100, "p1"))
	require.NoError(t, err)
	require.Nil(t, rejected)
	assert.Equal(t, money.Money(1200), c.TotalAmount)

	second := &coupon.Coupon{
		ID:      "cp-total",
		Code:    "TOTAL50",
		Type:    coupon.TypePerTotalDiscount,
		Amount:  50,
		Enabled: true,
	}
	rejected, err = c.SetCoupon(context.Background(), catalog, second)
	require.NoError(t, err)
	require.Nil(t, rejected)

	// The first coupon's per-item state is gone.
	assert.Nil(t, c.LineItems[0].PromoUnitPrice)
	assert.Equal(t, money.Money(1450), c.TotalAmount)
}

func TestClearCoupon(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	_, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(100, "p1"))
	require.NoError(t, err)

	c.ClearCoupon()
	_, err = c.RecomputeAmounts(context.Background(), catalog)
	require.NoError(t, err)

	assert.Nil(t, c.Coupon)
	assert.Nil(t, c.LineItems[0].PromoUnitPrice)
	assert.Equal(t, money.Money(0), c.PromoDiscountAmount)
	assert.Equal(t, money.Money(1500), c.TotalAmount)
}

func TestRecomputeAmounts_Idempotent(t *testing.T) {
	catalog := newCatalog(
		newTestProduct("p1", 500, nil),
		newTestProduct("p2", 650, money.Ptr(590)),
	)
	c := New()
	mustAdd(t, c, catalog, "p1", 3)
	mustAdd(t, c, catalog, "p2", 2)

	_, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(100, "p1"))
	require.NoError(t, err)

	type snapshot struct {
		base, discount, promoDiscount, promo, total money.Money
	}
	take := func() snapshot {
		return snapshot{c.BaseAmount, c.DiscountAmount, c.PromoDiscountAmount, c.PromoAmount, c.TotalAmount}
	}

	first := take()
	for range 3 {
		rejected, err := c.RecomputeAmounts(context.Background(), catalog)
		require.NoError(t, err)
		require.Nil(t, rejected)
		assert.Equal(t, first, take())
	}
}

func TestRecomputeAmounts_CouponTurnsIneligibleAfterMutation(t *testing.T) {
	catalog := newCatalog(newTestProduct("p1", 1000, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 3)

	cp := &coupon.Coupon{
		ID:          "cp-min",
		Code:        "MIN2500",
		Type:        coupon.TypePerTotalDiscount,
		Amount:      200,
		MinPurchase: 2500,
		Enabled:     true,
	}
	rejected, err := c.SetCoupon(context.Background(), catalog, cp)
	require.NoError(t, err)
	require.Nil(t, rejected)

	// Dropping below the threshold detaches the coupon on the next
	// recompute instead of keeping stale promo state.
	require.NoError(t, c.UpdateLineItem(c.LineItems[0].ID, 2))
	rejected, err = c.RecomputeAmounts(context.Background(), catalog)
	require.NoError(t, err)
	require.NotNil(t, rejected)
	assert.Equal(t, coupon.ReasonMinPurchase, rejected.Code)
	assert.Nil(t, c.Coupon)
	assert.Equal(t, money.Money(2000), c.TotalAmount)
}

func TestRecomputeAmounts_UnclampedPromoPrice(t *testing.T) {
	// A flat discount larger than the unit price drives the promo price
	// negative. Price() then falls back to the effective price, but the
	// promo discount still reports the full reduction.
	catalog := newCatalog(newTestProduct("cheap", 80, nil))
	c := New()
	mustAdd(t, c, catalog, "cheap", 1)

	rejected, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(100, "cheap"))
	require.NoError(t, err)
	require.Nil(t, rejected)

	li := c.LineItems[0]
	require.NotNil(t, li.PromoUnitPrice)
	assert.Equal(t, money.Money(-20), *li.PromoUnitPrice)
	assert.Equal(t, money.Money(80), li.Price())
	assert.Equal(t, money.Money(100), li.PromoDiscount())
	assert.Equal(t, money.Money(-20), c.TotalAmount)
}

func TestRecomputeAmounts_PromoPriceExactlyZero(t *testing.T) {
	// A flat discount equal to the unit price leaves a zero promo price.
	// Zero counts as unset on both paths: the line charges full price and
	// reports no discount, so the total stays internally consistent.
	catalog := newCatalog(newTestProduct("p1", 500, nil))
	c := New()
	mustAdd(t, c, catalog, "p1", 1)

	rejected, err := c.SetCoupon(context.Background(), catalog, perItemCoupon(500, "p1"))
	require.NoError(t, err)
	require.Nil(t, rejected)

	li := c.LineItems[0]
	require.NotNil(t, li.PromoUnitPrice)
	assert.Equal(t, money.Money(0), *li.PromoUnitPrice)
	assert.Equal(t, money.Money(500), li.Price())
	assert.Equal(t, money.Money(0), li.PromoDiscount())
	assert.Equal(t, money.Money(500), c.TotalAmount)
}
