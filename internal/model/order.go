package model

import "time"

type OrderItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user"`
	Items       []OrderItem `json:"orderItems"`
	TotalPrice  float64     `json:"totalPrice"`
	IsPaid      bool        `json:"isPaid"`
	PaidAt      *time.Time  `json:"paidAt,omitempty"`
	IsDelivered bool        `json:"isDelivered"`
	DeliveredAt *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}
