package mongodb

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/foodlavka/shop-api/internal/domain/directory"
)

var _ directory.Repository = (*DirectoryRepository)(nil)

// DirectoryRepository implements directory.Repository over the reference
// data collections.
type DirectoryRepository struct {
	deliveryMethods *mongo.Collection
	paymentMethods  *mongo.Collection
	pickupAddresses *mongo.Collection
	userAddresses   *mongo.Collection
	users           *mongo.Collection
}

// NewDirectoryRepository returns a DirectoryRepository using the given
// client.
func NewDirectoryRepository(c *Client) *DirectoryRepository {
	return &DirectoryRepository{
		deliveryMethods: c.db.Collection("delivery_methods"),
		paymentMethods:  c.db.Collection("payment_methods"),
		pickupAddresses: c.db.Collection("pickup_addresses"),
		userAddresses:   c.db.Collection("user_delivery_addresses"),
		users:           c.db.Collection("users"),
	}
}

// GetDeliveryMethodByID resolves a delivery method.
func (r *DirectoryRepository) GetDeliveryMethodByID(ctx context.Context, id string) (*directory.DeliveryMethod, error) {
	var dm directory.DeliveryMethod
	if err := decodeOne(r.deliveryMethods.FindOne(ctx, bson.M{"_id": id}), &dm, directory.ErrDeliveryMethodNotExist); err != nil {
		return nil, err
	}
	return &dm, nil
}

// GetPaymentMethodByID resolves a payment method.
func (r *DirectoryRepository) GetPaymentMethodByID(ctx context.Context, id string) (*directory.PaymentMethod, error) {
	var pm directory.PaymentMethod
	if err := decodeOne(r.paymentMethods.FindOne(ctx, bson.M{"_id": id}), &pm, directory.ErrPaymentMethodNotExist); err != nil {
		return nil, err
	}
	return &pm, nil
}

// GetPickupAddressByID resolves a pickup point.
func (r *DirectoryRepository) GetPickupAddressByID(ctx context.Context, id string) (*directory.PickupAddress, error) {
	var pa directory.PickupAddress
	if err := decodeOne(r.pickupAddresses.FindOne(ctx, bson.M{"_id": id}), &pa, directory.ErrPickupAddressNotExist); err != nil {
		return nil, err
	}
	return &pa, nil
}

// GetUserDeliveryAddressByID resolves a stored customer address.
func (r *DirectoryRepository) GetUserDeliveryAddressByID(ctx context.Context, id string) (*directory.UserDeliveryAddress, error) {
	var addr directory.UserDeliveryAddress
	if err := decodeOne(r.userAddresses.FindOne(ctx, bson.M{"_id": id}), &addr, directory.ErrUserDeliveryAddressNotExist); err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetUserByID returns the user record, or nil without error when the user
// is unknown.
func (r *DirectoryRepository) GetUserByID(ctx context.Context, id string) (*directory.User, error) {
	var u directory.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find user %s", id)
	}
	return &u, nil
}

// InsertDeliveryMethod stores a delivery method. Used by the seed tool.
func (r *DirectoryRepository) InsertDeliveryMethod(ctx context.Context, dm *directory.DeliveryMethod) error {
	_, err := r.deliveryMethods.InsertOne(ctx, dm)
	return errors.Wrap(err, "insert delivery method")
}

// InsertPaymentMethod stores a payment method. Used by the seed tool.
func (r *DirectoryRepository) InsertPaymentMethod(ctx context.Context, pm *directory.PaymentMethod) error {
	_, err := r.paymentMethods.InsertOne(ctx, pm)
	return errors.Wrap(err, "insert payment method")
}

// InsertPickupAddress stores a pickup point. Used by the seed tool.
func (r *DirectoryRepository) InsertPickupAddress(ctx context.Context, pa *directory.PickupAddress) error {
	_, err := r.pickupAddresses.InsertOne(ctx, pa)
	return errors.Wrap(err, "insert pickup address")
}

// decodeOne decodes a single lookup result, translating a missing document
// into the caller's NotExist error.
func decodeOne(res *mongo.SingleResult, dest any, notExist error) error {
	err := res.Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notExist
	}
	if err != nil {
		return errors.Wrap(err, "find directory entry")
	}
	return nil
}
