package handler

import (
	"net/http"

	"fsanano/shop-api/internal/model"

	"github.com/go-chi/chi/v5"
)

type createOrderRequest struct {
	Items []model.OrderItem `json:"orderItems"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	o, err := h.svc.Orders.Create(r.Context(), actor, req.Items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	orders, err := h.svc.Orders.ListMine(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	o, err := h.svc.Orders.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	o, err := h.svc.Orders.MarkPaid(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	o, err := h.svc.Orders.MarkDelivered(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
