package service

import (
	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/shopspring/decimal"
)

type StockDecrement struct {
	ProductID string
	Quantity  int
}

// CheckoutPlan is everything the commit phase writes. It is computed without
// touching the store.
type CheckoutPlan struct {
	Decrements []StockDecrement
	Items      []model.OrderItem
	Total      float64
	NewBalance float64
}

// PlanCheckout validates a cart against the current products and the user's
// balance. products holds the live record for each referenced id; an absent
// id means the product was deleted after it was added to the cart. An empty
// cart plans nothing and leaves the balance as it is.
func PlanCheckout(user *model.User, products map[string]*model.Product) (CheckoutPlan, error) {
	requested := make(map[string]int, len(user.Cart))
	var order []string
	for _, line := range user.Cart {
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	plan := CheckoutPlan{
		Decrements: make([]StockDecrement, 0, len(order)),
		Items:      make([]model.OrderItem, 0, len(order)),
	}
	total := decimal.Zero
	for _, id := range order {
		product, ok := products[id]
		if !ok || product == nil {
			return CheckoutPlan{}, apperr.Conflict("some products in cart are no longer available")
		}
		qty := requested[id]
		if qty > product.Stock {
			return CheckoutPlan{}, apperr.Conflictf("not enough stock for %s", product.Name)
		}

		total = total.Add(lineTotal(product.Price, qty))
		plan.Decrements = append(plan.Decrements, StockDecrement{ProductID: id, Quantity: qty})
		plan.Items = append(plan.Items, model.OrderItem{ProductID: id, Quantity: qty})
	}

	balance := decimal.NewFromFloat(user.Balance)
	if balance.LessThan(total) {
		return CheckoutPlan{}, apperr.Conflict("insufficient balance")
	}

	plan.Total = toAmount(total)
	plan.NewBalance = toAmount(balance.Sub(total))
	return plan, nil
}
