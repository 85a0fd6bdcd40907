package service

import (
	"context"
	"net/url"
	"strings"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/google/uuid"
)

type WebhookService struct {
	webhooks WebhookStore
}

func NewWebhookService(webhooks WebhookStore) *WebhookService {
	return &WebhookService{webhooks: webhooks}
}

// Register sets the user's webhook destination, replacing any earlier one.
func (s *WebhookService) Register(ctx context.Context, userID, rawURL string) (*model.Webhook, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.Validation("url must be an absolute http or https URL")
	}

	w := &model.Webhook{ID: uuid.NewString(), UserID: userID, URL: rawURL}
	if err := s.webhooks.Upsert(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WebhookService) Get(ctx context.Context, userID string) (*model.Webhook, error) {
	return s.webhooks.GetByUser(ctx, userID)
}

func (s *WebhookService) Delete(ctx context.Context, userID string) error {
	return s.webhooks.DeleteByUser(ctx, userID)
}
