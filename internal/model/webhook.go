package model

import "time"

type Webhook struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
