package handler

import (
	"net/http"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
)

type applyCouponRequest struct {
	Code        string   `json:"code"`
	TotalAmount *float64 `json:"totalAmount"`
}

type applyCouponResponse struct {
	Success    bool    `json:"success"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"finalPrice"`
}

type createCouponRequest struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Expiry   string  `json:"expiry"`
}

type createCouponResponse struct {
	Message string        `json:"message"`
	Coupon  *model.Coupon `json:"coupon"`
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.TotalAmount == nil {
		h.writeError(w, r, apperr.Validation("totalAmount is required"))
		return
	}

	res, err := h.svc.Coupons.Apply(r.Context(), req.Code, *req.TotalAmount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applyCouponResponse{
		Success:    true,
		Discount:   res.Discount,
		FinalPrice: res.FinalPrice,
	})
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	expiry, err := parseExpiry(req.Expiry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	coupon, err := h.svc.Coupons.Create(r.Context(), req.Code, req.Discount, expiry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createCouponResponse{Message: "Coupon created successfully", Coupon: coupon})
}

// parseExpiry accepts an RFC 3339 timestamp or a plain date, which is taken
// as the end of that day in UTC.
func parseExpiry(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperr.Validation("expiry is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		return d.Add(24*time.Hour - time.Nanosecond), nil
	}
	return time.Time{}, apperr.Validation("expiry must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
