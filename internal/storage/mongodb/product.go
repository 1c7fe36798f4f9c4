package mongodb

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/foodlavka/shop-api/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements the read-only catalog lookups on the products
// collection.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository returns a ProductRepository using the given client.
func NewProductRepository(c *Client) *ProductRepository {
	return &ProductRepository{coll: c.db.Collection("products")}
}

// GetByID returns the product snapshot for the given id, or
// product.ErrNotExist.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Snapshot, error) {
	var snap product.Snapshot
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, product.ErrNotExist
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find product %s", id)
	}
	return &snap, nil
}

// GetByIDs returns the snapshots matching the given ids; unknown ids are
// skipped.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Snapshot, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	var snaps []product.Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return snaps, nil
}

// Insert stores a product document. Used by the seed tool.
func (r *ProductRepository) Insert(ctx context.Context, snap *product.Snapshot) error {
	if _, err := r.coll.InsertOne(ctx, snap); err != nil {
		return errors.Wrapf(err, "insert product %s", snap.ID)
	}
	return nil
}
