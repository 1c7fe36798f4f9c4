// Package order implements the order aggregate and its lifecycle. An order
// wraps a finalized cart with customer, delivery, and payment metadata; its
// monetary amounts are the cart's at creation time and are never re-derived
// from live catalog prices.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/foodlavka/shop-api/internal/domain/cart"
	"github.com/foodlavka/shop-api/internal/domain/directory"
)

var (
	// ErrNotExist indicates the requested order was not found.
	ErrNotExist = errors.New("order not exist")
	// ErrLocked indicates the order reached a terminal status and rejects
	// further edits.
	ErrLocked = errors.New("order can no longer be edited")
	// ErrUnknownStatus indicates a status id outside the fixed set.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrEmptySource indicates the request named no cart, no session, and
	// no line items to build the order from.
	ErrEmptySource = errors.New("order has no line items")
)

// Order is a finalized purchase. The embedded cart is a snapshot owned by
// the order, detached from any live session cart.
type Order struct {
	ID     string     `bson:"_id" json:"id"`
	CartID string     `bson:"cart_id,omitempty" json:"cart_id,omitempty"`
	Cart   *cart.Cart `bson:"cart" json:"cart"`

	CustomerID        string `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	CustomerUsername  string `bson:"customer_username,omitempty" json:"customer_username,omitempty"`
	CustomerIPAddress string `bson:"customer_ip_address,omitempty" json:"customer_ip_address,omitempty"`

	Status       Status    `bson:"status" json:"status"`
	DateCreated  time.Time `bson:"date_created" json:"date_created"`
	DateModified time.Time `bson:"date_modified" json:"date_modified"`

	PaymentMethod  *directory.PaymentMethod `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	DeliveryMethod *directory.DeliveryMethod `bson:"delivery_method,omitempty" json:"delivery_method,omitempty"`

	DeliveryAddress      *directory.UserDeliveryAddress `bson:"delivery_address,omitempty" json:"delivery_address,omitempty"`
	GuestDeliveryAddress string                         `bson:"guest_delivery_address,omitempty" json:"guest_delivery_address,omitempty"`
	GuestPhoneNumber     string                         `bson:"guest_phone_number,omitempty" json:"guest_phone_number,omitempty"`
	PickupAddress        *directory.PickupAddress       `bson:"pickup_address,omitempty" json:"pickup_address,omitempty"`

	CustomMessage string `bson:"custom_message,omitempty" json:"custom_message,omitempty"`
}

// newOrder creates an order shell in the initial status.
func newOrder() *Order {
	now := time.Now().UTC()
	return &Order{
		ID:           uuid.New().String(),
		Status:       StatusAwaitingConfirmation,
		DateCreated:  now,
		DateModified: now,
	}
}

// CanEdit reports whether customer-facing edits are still allowed. Completed
// and cancelled orders are immutable.
func (o *Order) CanEdit() bool {
	return !o.Status.Terminal()
}

// SetModified refreshes the modification timestamp.
func (o *Order) SetModified() {
	o.DateModified = time.Now().UTC()
}

// Repository defines persistence operations for orders.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	Insert(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) (*Order, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of orders, newest first. Pages are 1-based.
	List(ctx context.Context, page, perPage int) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	Count(ctx context.Context) (int64, error)
}

// Notifier delivers the order-created notification. Dispatch is best-effort
// and must never affect the outcome of the operation that triggered it.
type Notifier interface {
	OrderCreated(ctx context.Context, o *Order) error
}
