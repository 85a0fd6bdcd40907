package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addToSavedCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) GetSavedCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	c, err := h.svc.SavedCarts.Get(r.Context(), actor, chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) AddToSavedCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req addToSavedCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.UserID == "" {
		req.UserID = actor.ID
	}

	c, err := h.svc.SavedCarts.AddItem(r.Context(), actor, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) RemoveFromSavedCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	c, err := h.svc.SavedCarts.RemoveItem(r.Context(), actor, chi.URLParam(r, "userId"), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Cart is empty now"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}
