package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/foodlavka/shop-api/internal/domain/cart"
	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/directory"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

// notifyTimeout bounds the fire-and-forget notification dispatch.
const notifyTimeout = 10 * time.Second

// CreateRequest holds the input for creating an order. Exactly one line-item
// source is used, tried in priority order: CartID, CustomerSessionID, Items.
type CreateRequest struct {
	CartID            string         `json:"cart_id,omitempty"`
	CustomerSessionID string         `json:"customer_session_id,omitempty"`
	Items             []cart.NewItem `json:"line_items,omitempty"`

	CustomerID        string `json:"customer_id,omitempty"`
	CustomerUsername  string `json:"-"`
	CustomerIPAddress string `json:"customer_ip_address,omitempty"`

	PaymentMethodID  string `json:"payment_method"`
	DeliveryMethodID string `json:"delivery_method"`

	DeliveryAddressID    string `json:"delivery_address,omitempty"`
	GuestDeliveryAddress string `json:"guest_delivery_address,omitempty"`
	GuestPhoneNumber     string `json:"guest_phone_number,omitempty"`
	PickupAddressID      string `json:"pickup_address,omitempty"`

	CustomMessage string `json:"custom_message,omitempty"`
}

// ListResult is one page of orders plus pagination info.
type ListResult struct {
	Orders      []Order `json:"orders"`
	Count       int     `json:"count"`
	CurrentPage int     `json:"current_page"`
	PagesCount  int     `json:"pages_count"`
}

// Service encapsulates order creation and lifecycle management.
type Service struct {
	orders    Repository
	carts     cart.Repository
	catalog   product.Repository
	coupons   coupon.Repository
	directory directory.Repository
	cache     cart.SessionCache
	notifier  Notifier
	lg        *zap.Logger
}

// NewService creates an order Service with the required dependencies.
func NewService(
	orders Repository,
	carts cart.Repository,
	catalog product.Repository,
	coupons coupon.Repository,
	dir directory.Repository,
	cache cart.SessionCache,
	notifier Notifier,
	lg *zap.Logger,
) *Service {
	return &Service{
		orders:    orders,
		carts:     carts,
		catalog:   catalog,
		coupons:   coupons,
		directory: dir,
		cache:     cache,
		notifier:  notifier,
		lg:        lg,
	}
}

// Create places an order for an authenticated customer and notifies the
// admin channel.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	o, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	o.CustomerID = req.CustomerID
	o.CustomerUsername = req.CustomerUsername
	if err := s.submit(ctx, o, req); err != nil {
		return nil, err
	}
	s.notify(ctx, o)
	return o, nil
}

// CreateGuest places an order without a customer identity. Guest orders do
// not trigger the admin notification.
func (s *Service) CreateGuest(ctx context.Context, req CreateRequest) (*Order, error) {
	o, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.submit(ctx, o, req); err != nil {
		return nil, err
	}
	return o, nil
}

// CreateAdmin places an order on behalf of a customer picked by an admin.
// The customer's username is resolved from the user directory when the
// record exists; a missing user record is tolerated.
func (s *Service) CreateAdmin(ctx context.Context, req CreateRequest) (*Order, error) {
	o, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	o.CustomerID = req.CustomerID
	if req.CustomerID != "" {
		user, err := s.directory.GetUserByID(ctx, req.CustomerID)
		if err != nil {
			return nil, errors.Wrap(err, "resolve customer")
		}
		if user != nil {
			o.CustomerUsername = user.Username
		}
	}
	if err := s.submit(ctx, o, req); err != nil {
		return nil, err
	}
	s.notify(ctx, o)
	return o, nil
}

// build constructs the order shell: line-item source, delivery and payment
// methods, and addresses. Method and address ids that resolve to nothing
// fail with their dedicated NotExist errors.
func (s *Service) build(ctx context.Context, req CreateRequest) (*Order, error) {
	o := newOrder()
	o.CustomerIPAddress = req.CustomerIPAddress
	o.GuestDeliveryAddress = req.GuestDeliveryAddress
	o.GuestPhoneNumber = req.GuestPhoneNumber
	o.CustomMessage = req.CustomMessage

	pm, err := s.directory.GetPaymentMethodByID(ctx, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	o.PaymentMethod = pm

	dm, err := s.directory.GetDeliveryMethodByID(ctx, req.DeliveryMethodID)
	if err != nil {
		return nil, err
	}
	o.DeliveryMethod = dm

	switch {
	case req.CartID != "":
		c, err := s.carts.GetByID(ctx, req.CartID)
		if err != nil {
			return nil, err
		}
		o.Cart = c
		o.CartID = c.ID
	case req.CustomerSessionID != "":
		c, err := s.carts.GetBySession(ctx, req.CustomerSessionID)
		if err != nil && !errors.Is(err, cart.ErrNotExist) {
			return nil, err
		}
		if c != nil {
			o.Cart = c
			o.CartID = c.ID
		}
	}
	if o.Cart == nil {
		if len(req.Items) == 0 {
			return nil, ErrEmptySource
		}
		c := cart.New()
		for _, item := range req.Items {
			c.LineItems = append(c.LineItems, cart.NewLineItem(item.ProductID, item.Quantity))
		}
		o.Cart = c
	}

	if req.DeliveryAddressID != "" {
		addr, err := s.directory.GetUserDeliveryAddressByID(ctx, req.DeliveryAddressID)
		if err != nil {
			return nil, err
		}
		o.DeliveryAddress = addr
	}
	if req.PickupAddressID != "" {
		addr, err := s.directory.GetPickupAddressByID(ctx, req.PickupAddressID)
		if err != nil {
			return nil, err
		}
		o.PickupAddress = addr
	}
	return o, nil
}

// submit finalizes and persists the order: every line item still missing a
// product snapshot is resolved (submitted items are kept as separate lines,
// never merged), amounts are recomputed, the order is saved, and the source
// session cart is deleted.
func (s *Service) submit(ctx context.Context, o *Order, req CreateRequest) error {
	for _, li := range o.Cart.LineItems {
		if li.Product != nil {
			continue
		}
		snap, err := s.catalog.GetByID(ctx, li.ProductID)
		if err != nil {
			return err
		}
		li.Product = snap
	}

	if _, err := o.Cart.RecomputeAmounts(ctx, s.catalog); err != nil {
		return err
	}

	if err := s.orders.Insert(ctx, o); err != nil {
		return errors.Wrap(err, "insert order")
	}

	if cp := o.Cart.Coupon; cp != nil {
		if err := s.coupons.IncrementUses(ctx, cp.ID); err != nil {
			s.lg.Warn("increment coupon uses failed",
				zap.String("coupon_id", cp.ID), zap.Error(err))
		}
	}

	if req.CustomerSessionID != "" {
		if err := s.carts.DeleteBySession(ctx, req.CustomerSessionID); err != nil && !errors.Is(err, cart.ErrNotExist) {
			s.lg.Warn("delete session cart failed",
				zap.String("session_id", req.CustomerSessionID), zap.Error(err))
		}
		if err := s.cache.Delete(ctx, req.CustomerSessionID); err != nil {
			s.lg.Warn("invalidate session cart cache failed", zap.Error(err))
		}
	}
	return nil
}

// notify dispatches the order-created notification without blocking the
// request; failures are logged and swallowed.
func (s *Service) notify(ctx context.Context, o *Order) {
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.OrderCreated(nctx, o); err != nil {
			s.lg.Warn("order notification failed",
				zap.String("order_id", o.ID), zap.Error(err))
		}
	}()
}

// GetByID returns the order with the given id.
func (s *Service) GetByID(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// UpdateStatus moves the order to the given status. Terminal orders reject
// the change with ErrLocked; between non-terminal statuses any jump is
// allowed.
func (s *Service) UpdateStatus(ctx context.Context, orderID, statusID string) (*Order, error) {
	status, ok := StatusByID(statusID)
	if !ok {
		return nil, ErrUnknownStatus
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanEdit() {
		return nil, ErrLocked
	}
	o.Status = status
	o.SetModified()
	return s.orders.Update(ctx, o)
}

// Delete removes the order.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.orders.Delete(ctx, orderID)
}

// List returns one page of orders, newest first. The page count preserves
// the historical formula floor(total/perPage).
func (s *Service) List(ctx context.Context, page, perPage int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	orders, err := s.orders.List(ctx, page, perPage)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	total, err := s.orders.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}
	return &ListResult{
		Orders:      orders,
		Count:       len(orders),
		CurrentPage: page,
		PagesCount:  int(total) / perPage,
	}, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
