package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
)

type WebhookLookup interface {
	GetByUser(ctx context.Context, userID string) (*model.Webhook, error)
}

type WebhookConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// WebhookSink POSTs events to the URL the user registered, if any. Each
// event gets a single attempt.
type WebhookSink struct {
	client   *http.Client
	webhooks WebhookLookup
}

func NewWebhookSink(cfg WebhookConfig, webhooks WebhookLookup) *WebhookSink {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "shop-api-webhooks/1.0"
	}
	return &WebhookSink{
		client: &http.Client{
			Transport: &headerTransport{
				UserAgent: cfg.UserAgent,
				Base:      http.DefaultTransport,
			},
			Timeout: cfg.Timeout,
		},
		webhooks: webhooks,
	}
}

// headerTransport stamps the headers every webhook request carries.
type headerTransport struct {
	UserAgent string
	Base      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return t.Base.RoundTrip(req)
}

func (s *WebhookSink) Name() string { return "webhook" }

type webhookPayload struct {
	Event   string  `json:"event"`
	EventID string  `json:"eventId"`
	UserID  string  `json:"userId"`
	OrderID string  `json:"orderId,omitempty"`
	Balance float64 `json:"balance"`
}

func (s *WebhookSink) Deliver(ctx context.Context, e Event) error {
	hook, err := s.webhooks.GetByUser(ctx, e.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up webhook: %w", err)
	}

	body, err := json.Marshal(webhookPayload{
		Event:   e.Name,
		EventID: e.ID,
		UserID:  e.UserID,
		OrderID: e.OrderID,
		Balance: e.Balance,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Event-Id", e.ID)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
