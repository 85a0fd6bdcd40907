package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutResponse struct {
	Message string  `json:"message"`
	Balance float64 `json:"balance"`
	OrderID string  `json:"orderId,omitempty"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	lines, err := h.svc.Cart.GetCart(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	cart, err := h.svc.Cart.AddItem(r.Context(), actor.ID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	cart, err := h.svc.Cart.RemoveItem(r.Context(), actor.ID, chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	res, err := h.svc.Cart.Checkout(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{
		Message: "Checkout successful",
		Balance: res.Balance,
		OrderID: res.OrderID,
	})
}
