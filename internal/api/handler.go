// Package api contains the hand-written HTTP handlers for the shop API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodlavka/shop-api/internal/domain/cart"
	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/directory"
	"github.com/foodlavka/shop-api/internal/domain/order"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

// Handler bundles the domain services behind the HTTP surface.
type Handler struct {
	carts  *cart.Service
	orders *order.Service
}

// NewHandler creates a Handler over the given services.
func NewHandler(carts *cart.Service, orders *order.Service) *Handler {
	return &Handler{carts: carts, orders: orders}
}

// Register mounts all API routes on mux under /api.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/carts/{session_id}", h.CreateCart)
	mux.HandleFunc("GET /api/carts/{session_id}", h.GetCart)
	mux.HandleFunc("DELETE /api/carts/{cart_id}", h.DeleteCart)
	mux.HandleFunc("POST /api/carts/{cart_id}/items", h.AddLineItems)
	mux.HandleFunc("PATCH /api/carts/{cart_id}/items/{item_id}", h.UpdateLineItem)
	mux.HandleFunc("DELETE /api/carts/{cart_id}/items/{item_id}", h.RemoveLineItem)
	mux.HandleFunc("DELETE /api/carts/{cart_id}/items/{item_id}/quantity", h.RemoveLineItemQuantity)
	mux.HandleFunc("POST /api/carts/{cart_id}/coupons/add", h.ApplyCoupon)
	mux.HandleFunc("POST /api/carts/{cart_id}/coupons/remove", h.RemoveCoupon)

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("POST /api/orders/guest", h.CreateGuestOrder)
	mux.HandleFunc("POST /api/orders/admin", h.CreateAdminOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/customer/{customer_id}", h.ListCustomerOrders)
	mux.HandleFunc("GET /api/orders/{order_id}", h.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{order_id}/status", h.UpdateOrderStatus)
	mux.HandleFunc("DELETE /api/orders/{order_id}", h.DeleteOrder)
}

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}

// respondDomainError maps domain sentinel errors to stable HTTP codes.
// Anything unmapped is a 500 and gets logged with the request's logger.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrNotExist):
		respondError(w, http.StatusNotFound, "cart_not_found", "cart does not exist")
	case errors.Is(err, cart.ErrAlreadyExists):
		respondError(w, http.StatusConflict, "cart_already_exists", "session already has a cart")
	case errors.Is(err, cart.ErrLineItemNotExist):
		respondError(w, http.StatusNotFound, "line_item_not_found", "line item does not exist")
	case errors.Is(err, product.ErrNotExist):
		respondError(w, http.StatusNotFound, "product_not_found", "product does not exist")
	case errors.Is(err, coupon.ErrNotExist):
		respondError(w, http.StatusNotFound, "coupon_not_found", "coupon does not exist")
	case errors.Is(err, order.ErrNotExist):
		respondError(w, http.StatusNotFound, "order_not_found", "order does not exist")
	case errors.Is(err, order.ErrLocked):
		respondError(w, http.StatusConflict, "order_locked", "order is in a terminal status")
	case errors.Is(err, order.ErrUnknownStatus):
		respondError(w, http.StatusBadRequest, "unknown_status", "unknown order status")
	case errors.Is(err, order.ErrEmptySource):
		respondError(w, http.StatusBadRequest, "empty_order_source", "order has no line item source")
	case errors.Is(err, directory.ErrDeliveryMethodNotExist):
		respondError(w, http.StatusNotFound, "delivery_method_not_found", "delivery method does not exist")
	case errors.Is(err, directory.ErrPaymentMethodNotExist):
		respondError(w, http.StatusNotFound, "payment_method_not_found", "payment method does not exist")
	case errors.Is(err, directory.ErrPickupAddressNotExist):
		respondError(w, http.StatusNotFound, "pickup_address_not_found", "pickup address does not exist")
	case errors.Is(err, directory.ErrUserDeliveryAddressNotExist):
		respondError(w, http.StatusNotFound, "delivery_address_not_found", "delivery address does not exist")
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return false
	}
	return true
}
