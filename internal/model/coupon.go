package model

import "time"

type Coupon struct {
	Code     string    `json:"code"`
	Discount float64   `json:"discount"`
	Expiry   time.Time `json:"expiry"`
}

type CouponResult struct {
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"finalPrice"`
}
