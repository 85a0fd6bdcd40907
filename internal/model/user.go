package model

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// CartLine is one entry of the cart embedded in a user record.
type CartLine struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Balance      float64    `json:"balance"`
	Cart         []CartLine `json:"cart"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CartLineIndex returns the position of productID in the cart, or -1.
func (u *User) CartLineIndex(productID string) int {
	for i, line := range u.Cart {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
