package repository

import (
	"context"
	"fmt"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
)

type WebhookRepository struct {
	db *DB
}

func NewWebhookRepository(db *DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

// Upsert registers w as the user's only webhook, replacing any previous one.
func (r *WebhookRepository) Upsert(ctx context.Context, w *model.Webhook) error {
	err := r.db.executor(ctx).QueryRow(ctx,
		`INSERT INTO webhooks (id, user_id, url)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET url = EXCLUDED.url
		 RETURNING id, created_at`,
		w.ID, w.UserID, w.URL,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save webhook: %w", err)
	}
	return nil
}

func (r *WebhookRepository) GetByUser(ctx context.Context, userID string) (*model.Webhook, error) {
	var w model.Webhook
	err := r.db.executor(ctx).QueryRow(ctx,
		`SELECT id, user_id, url, created_at FROM webhooks WHERE user_id = $1`, userID,
	).Scan(&w.ID, &w.UserID, &w.URL, &w.CreatedAt)
	if err != nil {
		return nil, notFound(err, "webhook not found", "get webhook")
	}
	return &w, nil
}

func (r *WebhookRepository) DeleteByUser(ctx context.Context, userID string) error {
	tag, err := r.db.executor(ctx).Exec(ctx, `DELETE FROM webhooks WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("webhook not found")
	}
	return nil
}
