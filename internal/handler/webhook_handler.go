package handler

import (
	"net/http"
)

type registerWebhookRequest struct {
	URL string `json:"url"`
}

func (h *Handler) RegisterWebhook(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req registerWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	hook, err := h.svc.Webhooks.Register(r.Context(), actor.ID, req.URL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (h *Handler) GetWebhook(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	hook, err := h.svc.Webhooks.Get(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (h *Handler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	if err := h.svc.Webhooks.Delete(r.Context(), actor.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Webhook removed"})
}
