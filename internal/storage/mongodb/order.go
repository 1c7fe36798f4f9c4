package mongodb

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodlavka/shop-api/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository on the orders collection.
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository returns an OrderRepository using the given client.
func NewOrderRepository(c *Client) *OrderRepository {
	return &OrderRepository{coll: c.db.Collection("orders")}
}

// GetByID returns the order with the given id, or order.ErrNotExist.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, order.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find order %s", id)
	}
	return &o, nil
}

// Insert stores a new order document.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	if _, err := r.coll.InsertOne(ctx, o); err != nil {
		return errors.Wrapf(err, "insert order %s", o.ID)
	}
	return nil
}

// Update replaces the order's fields and returns the post-update document.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) (*order.Order, error) {
	var updated order.Order
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": o.ID},
		bson.M{"$set": o},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, order.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update order %s", o.ID)
	}
	return &updated, nil
}

// Delete removes the order with the given id, or returns order.ErrNotExist.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete order %s", id)
	}
	if res.DeletedCount == 0 {
		return order.ErrNotExist
	}
	return nil
}

// List returns one page of orders sorted by creation date, newest first.
// Pages are 1-based.
func (r *OrderRepository) List(ctx context.Context, page, perPage int) ([]order.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date_created", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_created", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find orders for customer %s", customerID)
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// Count returns the total number of order documents.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return n, nil
}
