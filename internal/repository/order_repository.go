package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, items, total_price, is_paid, paid_at, is_delivered, delivered_at, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var items []byte
	err := row.Scan(&o.ID, &o.UserID, &items, &o.TotalPrice, &o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return &o, nil
}

// Create inserts an order. Orders are immutable afterwards except for the
// payment and delivery flags.
func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	err = r.db.executor(ctx).QueryRow(ctx,
		`INSERT INTO orders (id, user_id, items, total_price, is_paid, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		o.ID, o.UserID, items, o.TotalPrice, o.IsPaid, o.PaidAt,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.db.executor(ctx).QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "order not found", "get order")
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.db.executor(ctx).Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id string, at time.Time) error {
	return r.setFlag(ctx, `UPDATE orders SET is_paid = TRUE, paid_at = $2 WHERE id = $1`, id, at)
}

func (r *OrderRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return r.setFlag(ctx, `UPDATE orders SET is_delivered = TRUE, delivered_at = $2 WHERE id = $1`, id, at)
}

func (r *OrderRepository) setFlag(ctx context.Context, sql, id string, at time.Time) error {
	tag, err := r.db.executor(ctx).Exec(ctx, sql, id, at)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}
