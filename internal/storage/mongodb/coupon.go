package mongodb

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/foodlavka/shop-api/internal/domain/coupon"
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository on the coupons collection.
type CouponRepository struct {
	coll *mongo.Collection
}

// NewCouponRepository returns a CouponRepository using the given client.
func NewCouponRepository(c *Client) *CouponRepository {
	return &CouponRepository{coll: c.db.Collection("coupons")}
}

// GetByCode looks a coupon up by its customer-facing code. Returns
// coupon.ErrNotExist when the code is unknown.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var cp coupon.Coupon
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&cp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, coupon.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find coupon by code %q", code)
	}
	return &cp, nil
}

// IncrementUses atomically bumps the coupon's usage counter.
func (r *CouponRepository) IncrementUses(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"num_uses": 1}},
	)
	if err != nil {
		return errors.Wrapf(err, "increment uses for coupon %s", id)
	}
	return nil
}

// Insert stores a coupon document. Used by the seed and ingest tools.
func (r *CouponRepository) Insert(ctx context.Context, cp *coupon.Coupon) error {
	if _, err := r.coll.InsertOne(ctx, cp); err != nil {
		return errors.Wrapf(err, "insert coupon %s", cp.Code)
	}
	return nil
}
