// Package directory holds the reference data orders resolve against:
// delivery and payment methods, pickup points, stored customer delivery
// addresses, and the user lookup for display names.
package directory

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrDeliveryMethodNotExist indicates an unknown delivery method id.
	ErrDeliveryMethodNotExist = errors.New("delivery method not exist")
	// ErrPaymentMethodNotExist indicates an unknown payment method id.
	ErrPaymentMethodNotExist = errors.New("payment method not exist")
	// ErrPickupAddressNotExist indicates an unknown pickup address id.
	ErrPickupAddressNotExist = errors.New("pickup address not exist")
	// ErrUserDeliveryAddressNotExist indicates an unknown stored address id.
	ErrUserDeliveryAddressNotExist = errors.New("user delivery address not exist")
)

// DeliveryMethod is a way an order reaches the customer (delivery, pickup).
type DeliveryMethod struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// PaymentMethod is a way an order is paid for.
type PaymentMethod struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// PickupAddress is a store location where a pickup order is collected.
type PickupAddress struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	Info string `bson:"info,omitempty" json:"info,omitempty"`
}

// UserDeliveryAddress is a customer's stored delivery address.
type UserDeliveryAddress struct {
	ID             string `bson:"_id" json:"id"`
	UserID         string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	City           string `bson:"city,omitempty" json:"city,omitempty"`
	Street         string `bson:"street" json:"street"`
	HouseNumber    string `bson:"house_number" json:"house_number"`
	FlatNumber     string `bson:"flat_number,omitempty" json:"flat_number,omitempty"`
	EntranceNumber string `bson:"entrance_number,omitempty" json:"entrance_number,omitempty"`
	FloorNumber    string `bson:"floor_number,omitempty" json:"floor_number,omitempty"`
	AddressDisplay string `bson:"address_display,omitempty" json:"address_display,omitempty"`
	Comment        string `bson:"comment,omitempty" json:"comment,omitempty"`
}

// User is the slice of the user document orders need for display.
type User struct {
	ID       string `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username"`
}

// Repository resolves directory entries by id. Each lookup returns its
// dedicated NotExist error when the id is unknown.
type Repository interface {
	GetDeliveryMethodByID(ctx context.Context, id string) (*DeliveryMethod, error)
	GetPaymentMethodByID(ctx context.Context, id string) (*PaymentMethod, error)
	GetPickupAddressByID(ctx context.Context, id string) (*PickupAddress, error)
	GetUserDeliveryAddressByID(ctx context.Context, id string) (*UserDeliveryAddress, error)
	// GetUserByID returns nil without error for unknown users; order
	// creation tolerates a missing user record.
	GetUserByID(ctx context.Context, id string) (*User, error)
}
