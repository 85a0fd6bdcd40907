package model

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Image       *string   `json:"image,omitempty"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"numReviews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter holds the optional catalog filters. A nil field means the
// filter is not applied at all.
type ProductFilter struct {
	Category *string
	MinPrice *float64
	MaxPrice *float64
}

type ProductQuery struct {
	Filter    ProductFilter
	SortBy    string
	Ascending bool
	Page      int
	Limit     int
}

type ProductPage struct {
	Items       []Product `json:"products"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalCount  int       `json:"totalProducts"`
}

// ProductUpdate carries a partial edit; nil fields keep their current value.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}
