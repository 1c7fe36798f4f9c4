package mongodb

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodlavka/shop-api/internal/domain/cart"
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository on the carts collection.
type CartRepository struct {
	coll *mongo.Collection
}

// NewCartRepository returns a CartRepository using the given client.
func NewCartRepository(c *Client) *CartRepository {
	return &CartRepository{coll: c.db.Collection("carts")}
}

// GetByID returns the cart with the given id, or cart.ErrNotExist.
func (r *CartRepository) GetByID(ctx context.Context, id string) (*cart.Cart, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetBySession returns the session's cart, or cart.ErrNotExist.
func (r *CartRepository) GetBySession(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *CartRepository) findOne(ctx context.Context, filter bson.M) (*cart.Cart, error) {
	var c cart.Cart
	err := r.coll.FindOne(ctx, filter).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, cart.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrap(err, "find cart")
	}
	return &c, nil
}

// Insert stores a new cart document.
func (r *CartRepository) Insert(ctx context.Context, c *cart.Cart) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return errors.Wrapf(err, "insert cart %s", c.ID)
	}
	return nil
}

// Update replaces the cart's fields and returns the post-update document.
func (r *CartRepository) Update(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
	var updated cart.Cart
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": c},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, cart.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update cart %s", c.ID)
	}
	return &updated, nil
}

// Delete removes the cart with the given id, or returns cart.ErrNotExist.
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete cart %s", id)
	}
	if res.DeletedCount == 0 {
		return cart.ErrNotExist
	}
	return nil
}

// DeleteBySession removes the session's cart. A missing cart is reported as
// cart.ErrNotExist; checkout treats that as already done.
func (r *CartRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return errors.Wrapf(err, "delete session cart %s", sessionID)
	}
	if res.DeletedCount == 0 {
		return cart.ErrNotExist
	}
	return nil
}
