package service

import (
	"context"
	"strings"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/shopspring/decimal"
)

type CouponService struct {
	coupons CouponStore
	now     func() time.Time
}

func NewCouponService(coupons CouponStore) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

// Apply computes the discount a coupon gives on totalAmount. Coupons are
// never redeemed; any code works for anyone until it expires.
func (s *CouponService) Apply(ctx context.Context, code string, totalAmount float64) (model.CouponResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.CouponResult{}, apperr.Validation("invalid coupon code")
	}
	if totalAmount < 0 {
		return model.CouponResult{}, apperr.Validation("totalAmount must not be negative")
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return model.CouponResult{}, apperr.Validation("invalid coupon code")
		}
		return model.CouponResult{}, err
	}

	if s.now().After(coupon.Expiry) {
		return model.CouponResult{}, apperr.Validation("coupon has expired")
	}

	return discount(totalAmount, coupon.Discount), nil
}

func discount(totalAmount, percent float64) model.CouponResult {
	total := decimal.NewFromFloat(totalAmount)
	off := total.Mul(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100))
	return model.CouponResult{
		Discount:   off.InexactFloat64(),
		FinalPrice: total.Sub(off).InexactFloat64(),
	}
}

func (s *CouponService) Create(ctx context.Context, code string, percent float64, expiry time.Time) (*model.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Validation("code is required")
	}
	if percent <= 0 || percent > 100 {
		return nil, apperr.Validation("discount must be between 0 and 100")
	}
	if expiry.IsZero() {
		return nil, apperr.Validation("expiry is required")
	}

	if _, err := s.coupons.GetByCode(ctx, code); err == nil {
		return nil, apperr.Conflict("coupon code already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	coupon := &model.Coupon{Code: code, Discount: percent, Expiry: expiry.UTC()}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}
