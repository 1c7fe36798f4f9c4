package api

import (
	"net/http"
	"strconv"

	"github.com/foodlavka/shop-api/internal/domain/order"
)

type updateStatusRequest struct {
	StatusID string `json:"status_id"`
}

// CreateOrder handles POST /api/orders: an order for a known customer.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "missing_customer", "customer_id is required")
		return
	}

	o, err := h.orders.Create(r.Context(), req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// CreateGuestOrder handles POST /api/orders/guest: no customer identity,
// delivery details come as free-form guest fields.
func (h *Handler) CreateGuestOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CustomerID = ""

	o, err := h.orders.CreateGuest(r.Context(), req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// CreateAdminOrder handles POST /api/orders/admin: an order placed by an
// operator on behalf of a customer.
func (h *Handler) CreateAdminOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.orders.CreateAdmin(r.Context(), req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// ListOrders handles GET /api/orders?page=&per_page=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 10)

	res, err := h.orders.List(r.Context(), page, perPage)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// ListCustomerOrders handles GET /api/orders/customer/{customer_id}.
func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByCustomer(r.Context(), r.PathValue("customer_id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/{order_id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("order_id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// UpdateOrderStatus handles PATCH /api/orders/{order_id}/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StatusID == "" {
		respondError(w, http.StatusBadRequest, "invalid_status", "status_id is required")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), r.PathValue("order_id"), req.StatusID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// DeleteOrder handles DELETE /api/orders/{order_id}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), r.PathValue("order_id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
