package service

import (
	"context"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	orders   OrderStore
	products ProductStore
	now      func() time.Time
}

func NewOrderService(orders OrderStore, products ProductStore) *OrderService {
	return &OrderService{orders: orders, products: products, now: time.Now}
}

// Create places an unpaid order priced at the products' current prices.
func (s *OrderService) Create(ctx context.Context, actor Actor, items []model.OrderItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("no order items")
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			return nil, apperr.Validation("product is required for every order item")
		}
		if it.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be at least 1")
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, apperr.NotFound("product not found")
		}
		total = total.Add(lineTotal(p.Price, it.Quantity))
	}

	o := &model.Order{
		ID:         uuid.NewString(),
		UserID:     actor.ID,
		Items:      items,
		TotalPrice: toAmount(total),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) ListMine(ctx context.Context, actor Actor) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, actor.ID)
}

// Get returns an order to its owner or an admin. Other callers see NotFound.
func (s *OrderService) Get(ctx context.Context, actor Actor, id string) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(o.UserID) {
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, actor Actor, id string) (*model.Order, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, apperr.Conflict("order already paid")
	}

	at := s.now().UTC()
	if err := s.orders.MarkPaid(ctx, id, at); err != nil {
		return nil, err
	}
	o.IsPaid, o.PaidAt = true, &at
	return o, nil
}

func (s *OrderService) MarkDelivered(ctx context.Context, actor Actor, id string) (*model.Order, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if o.IsDelivered {
		return nil, apperr.Conflict("order already delivered")
	}

	at := s.now().UTC()
	if err := s.orders.MarkDelivered(ctx, id, at); err != nil {
		return nil, err
	}
	o.IsDelivered, o.DeliveredAt = true, &at
	return o, nil
}
