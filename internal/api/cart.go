package api

import (
	"net/http"

	"github.com/foodlavka/shop-api/internal/domain/cart"
)

// createCartRequest is the body for cart creation and item addition.
type createCartRequest struct {
	Items []cart.NewItem `json:"line_items"`
}

type updateLineItemRequest struct {
	Quantity int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

// couponRejectedResponse is returned when a coupon exists but cannot be
// applied to the cart. The cart is included in its reset state.
type couponRejectedResponse struct {
	Error       string     `json:"error"`
	Code        string     `json:"code"`
	MinPurchase int64      `json:"min_purchase,omitempty"`
	Cart        *cart.Cart `json:"cart"`
}

// CreateCart handles POST /api/carts/{session_id}.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	var req createCartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "invalid_item", "each item needs a product id and a positive quantity")
			return
		}
	}

	c, err := h.carts.CreateCart(r.Context(), sessionID, req.Items)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// GetCart handles GET /api/carts/{session_id}.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.GetCartBySession(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteCart handles DELETE /api/carts/{cart_id}.
func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.DeleteCart(r.Context(), r.PathValue("cart_id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLineItems handles POST /api/carts/{cart_id}/items.
func (h *Handler) AddLineItems(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_item", "line_items must not be empty")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "invalid_item", "each item needs a product id and a positive quantity")
			return
		}
	}

	c, err := h.carts.AddLineItems(r.Context(), r.PathValue("cart_id"), req.Items)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// UpdateLineItem handles PATCH /api/carts/{cart_id}/items/{item_id}. A
// quantity below one removes the item.
func (h *Handler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	var req updateLineItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.carts.UpdateLineItem(r.Context(), r.PathValue("cart_id"), r.PathValue("item_id"), req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// RemoveLineItem handles DELETE /api/carts/{cart_id}/items/{item_id}.
func (h *Handler) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveLineItem(r.Context(), r.PathValue("cart_id"), r.PathValue("item_id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// RemoveLineItemQuantity handles DELETE /api/carts/{cart_id}/items/{item_id}/quantity,
// removing a single unit. The last unit removes the whole line item.
func (h *Handler) RemoveLineItemQuantity(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveLineItemQuantity(r.Context(), r.PathValue("cart_id"), r.PathValue("item_id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ApplyCoupon handles POST /api/carts/{cart_id}/coupons/add. An ineligible
// coupon yields 422 with the reason and the cart in its reset state.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_code", "code must not be empty")
		return
	}

	c, rejected, err := h.carts.ApplyCoupon(r.Context(), r.PathValue("cart_id"), req.Code)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if rejected != nil {
		respondJSON(w, http.StatusUnprocessableEntity, couponRejectedResponse{
			Error:       rejected.Error(),
			Code:        string(rejected.Code),
			MinPurchase: int64(rejected.MinPurchase),
			Cart:        c,
		})
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// RemoveCoupon handles POST /api/carts/{cart_id}/coupons/remove.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveCoupon(r.Context(), r.PathValue("cart_id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
