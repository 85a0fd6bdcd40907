package repository

import (
	"context"
	"fmt"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
)

type CouponRepository struct {
	db *DB
}

func NewCouponRepository(db *DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Create inserts a coupon; an existing code yields a Conflict error.
func (r *CouponRepository) Create(ctx context.Context, c *model.Coupon) error {
	_, err := r.db.executor(ctx).Exec(ctx,
		`INSERT INTO coupons (code, discount, expiry) VALUES ($1, $2, $3)`, c.Code, c.Discount, c.Expiry)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("coupon code already exists")
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := r.db.executor(ctx).QueryRow(ctx,
		`SELECT code, discount, expiry FROM coupons WHERE code = $1`, code,
	).Scan(&c.Code, &c.Discount, &c.Expiry)
	if err != nil {
		return nil, notFound(err, "coupon not found", "get coupon")
	}
	return &c, nil
}
