package model

import "time"

// SavedCartItem is a denormalized snapshot of a product at the time it was added.
type SavedCartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image,omitempty"`
}

// SavedCart is the standalone cart record. TotalPrice is derived from Items
// and recomputed on every mutation.
type SavedCart struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Items      []SavedCartItem `json:"cartItems"`
	TotalPrice float64         `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ResolvedCartLine is a user cart line joined with its current product.
// Product is nil when the referenced product no longer exists.
type ResolvedCartLine struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}
