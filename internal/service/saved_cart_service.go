package service

import (
	"context"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavedCartService manages the standalone cart records that keep a snapshot
// of each product's name, price and image.
type SavedCartService struct {
	tx       TxRunner
	users    UserStore
	carts    SavedCartStore
	products ProductStore
}

func NewSavedCartService(tx TxRunner, users UserStore, carts SavedCartStore, products ProductStore) *SavedCartService {
	return &SavedCartService{tx: tx, users: users, carts: carts, products: products}
}

func (s *SavedCartService) Get(ctx context.Context, actor Actor, userID string) (*model.SavedCart, error) {
	if !actor.CanActFor(userID) {
		return nil, apperr.Forbidden("access denied")
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("cart is empty")
		}
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, apperr.NotFound("cart is empty")
	}
	return c, nil
}

// AddItem creates the cart on first use and merges repeated products into
// one line.
func (s *SavedCartService) AddItem(ctx context.Context, actor Actor, userID, productID string, quantity int) (*model.SavedCart, error) {
	if !actor.CanActFor(userID) {
		return nil, apperr.Forbidden("access denied")
	}
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	var cart *model.SavedCart
	err := s.tx.RunAtomic(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return err
		}

		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		c, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				return err
			}
			c = &model.SavedCart{ID: uuid.NewString(), UserID: userID, Items: []model.SavedCartItem{}}
		}

		i := savedItemIndex(c.Items, productID)
		current := 0
		if i >= 0 {
			current = c.Items[i].Quantity
		}
		if current+quantity > product.Stock {
			return apperr.Conflict("not enough stock available")
		}

		if i >= 0 {
			c.Items[i].Quantity += quantity
		} else {
			c.Items = append(c.Items, model.SavedCartItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  quantity,
				Image:     product.Image,
			})
		}
		c.TotalPrice = savedCartTotal(c.Items)

		if err := s.carts.Upsert(ctx, c); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a product from the cart. When the last line goes the cart
// record is deleted and a nil cart is returned.
func (s *SavedCartService) RemoveItem(ctx context.Context, actor Actor, userID, productID string) (*model.SavedCart, error) {
	if !actor.CanActFor(userID) {
		return nil, apperr.Forbidden("access denied")
	}

	var cart *model.SavedCart
	err := s.tx.RunAtomic(ctx, func(ctx context.Context) error {
		c, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			return err
		}

		i := savedItemIndex(c.Items, productID)
		if i < 0 {
			return apperr.Validation("item not found in cart")
		}
		c.Items = append(c.Items[:i:i], c.Items[i+1:]...)

		if len(c.Items) == 0 {
			return s.carts.DeleteByUser(ctx, userID)
		}

		c.TotalPrice = savedCartTotal(c.Items)
		if err := s.carts.Upsert(ctx, c); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func savedItemIndex(items []model.SavedCartItem, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func savedCartTotal(items []model.SavedCartItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(lineTotal(it.Price, it.Quantity))
	}
	return toAmount(total)
}
