package service

import (
	"context"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/notify"

	"github.com/google/uuid"
)

// CartService manages the cart embedded in each user record and turns it
// into a purchase at checkout.
type CartService struct {
	tx       TxRunner
	users    UserStore
	products ProductStore
	orders   OrderStore
	notifier Notifier
	now      func() time.Time
}

func NewCartService(tx TxRunner, users UserStore, products ProductStore, orders OrderStore, notifier Notifier) *CartService {
	return &CartService{
		tx:       tx,
		users:    users,
		products: products,
		orders:   orders,
		notifier: notifier,
		now:      time.Now,
	}
}

type CheckoutResult struct {
	OrderID string
	Total   float64
	Balance float64
}

// AddItem adds quantity of a product to the user's cart. Stock is only a
// ceiling here; nothing is reserved until checkout.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) ([]model.CartLine, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	var cart []model.CartLine
	err := s.tx.RunAtomic(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		if quantity > product.Stock {
			return apperr.Conflict("not enough stock available")
		}

		if i := user.CartLineIndex(productID); i >= 0 {
			if user.Cart[i].Quantity+quantity > product.Stock {
				return apperr.Conflict("adding this many exceeds available stock")
			}
			user.Cart[i].Quantity += quantity
		} else {
			user.Cart = append(user.Cart, model.CartLine{ProductID: productID, Quantity: quantity})
		}

		if err := s.users.SaveCart(ctx, user.ID, user.Cart); err != nil {
			return err
		}
		cart = user.Cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the product's line; the remaining lines keep their order.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) ([]model.CartLine, error) {
	var cart []model.CartLine
	err := s.tx.RunAtomic(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		i := user.CartLineIndex(productID)
		if i < 0 {
			return apperr.Validation("item not found in cart")
		}

		remaining := make([]model.CartLine, 0, len(user.Cart)-1)
		remaining = append(remaining, user.Cart[:i]...)
		remaining = append(remaining, user.Cart[i+1:]...)

		if err := s.users.SaveCart(ctx, user.ID, remaining); err != nil {
			return err
		}
		cart = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart returns the cart lines with their current products. Lines whose
// product was deleted come back with a nil Product.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]model.ResolvedCartLine, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetMany(ctx, cartProductIDs(user.Cart))
	if err != nil {
		return nil, err
	}

	lines := make([]model.ResolvedCartLine, 0, len(user.Cart))
	for _, line := range user.Cart {
		lines = append(lines, model.ResolvedCartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Product:   products[line.ProductID],
		})
	}
	return lines, nil
}

// Checkout converts the cart into stock decrements, a balance deduction and
// a paid order, or fails without changing anything. An empty cart succeeds
// without writing anything and OrderID stays empty.
func (s *CartService) Checkout(ctx context.Context, userID string) (*CheckoutResult, error) {
	var result CheckoutResult
	err := s.tx.RunAtomic(ctx, func(ctx context.Context) error {
		// 1. Lock the user and the products the cart references
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		products, err := s.products.GetManyForUpdate(ctx, cartProductIDs(user.Cart))
		if err != nil {
			return err
		}

		// 2. Validate everything before writing anything
		plan, err := PlanCheckout(user, products)
		if err != nil {
			return err
		}
		if len(plan.Decrements) == 0 {
			result = CheckoutResult{Balance: plan.NewBalance}
			return nil
		}

		// 3. Commit stock decrements
		for _, d := range plan.Decrements {
			if err := s.products.DecrementStock(ctx, d.ProductID, d.Quantity); err != nil {
				return err
			}
		}

		// 4. Record the purchase
		paidAt := s.now().UTC()
		order := &model.Order{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			Items:      plan.Items,
			TotalPrice: plan.Total,
			IsPaid:     true,
			PaidAt:     &paidAt,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		// 5. Deduct balance and clear the cart
		if err := s.users.SaveBalanceAndCart(ctx, user.ID, plan.NewBalance, []model.CartLine{}); err != nil {
			return err
		}

		result = CheckoutResult{OrderID: order.ID, Total: plan.Total, Balance: plan.NewBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.OrderID != "" {
		s.notifier.Notify(ctx, notify.NewCheckoutCompleted(userID, result.OrderID, result.Balance))
	}
	return &result, nil
}

func cartProductIDs(cart []model.CartLine) []string {
	ids := make([]string, 0, len(cart))
	seen := make(map[string]bool, len(cart))
	for _, line := range cart {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}
