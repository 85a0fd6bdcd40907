package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"fsanano/shop-api/internal/model"
)

// CartRepository stores the denormalized standalone carts, one per user.
type CartRepository struct {
	db *DB
}

func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*model.SavedCart, error) {
	var c model.SavedCart
	var items []byte
	err := r.db.executor(ctx).QueryRow(ctx,
		`SELECT id, user_id, items, total_price, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&c.ID, &c.UserID, &items, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "cart not found", "get cart")
	}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return &c, nil
}

// Upsert writes the whole cart, creating it on first use.
func (r *CartRepository) Upsert(ctx context.Context, c *model.SavedCart) error {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	err = r.db.executor(ctx).QueryRow(ctx,
		`INSERT INTO carts (id, user_id, items, total_price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET items = EXCLUDED.items, total_price = EXCLUDED.total_price, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		c.ID, c.UserID, items, c.TotalPrice,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.executor(ctx).Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
