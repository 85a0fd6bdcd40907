package service

import (
	"context"
	"time"

	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/notify"
)

// TxRunner runs fn atomically; store calls made with the ctx it receives
// take part in the same transaction.
type TxRunner interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	SaveCart(ctx context.Context, userID string, cart []model.CartLine) error
	SaveBalanceAndCart(ctx context.Context, userID string, balance float64, cart []model.CartLine) error
	Delete(ctx context.Context, id string) error
}

type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*model.Product, error)
	GetManyForUpdate(ctx context.Context, ids []string) (map[string]*model.Product, error)
	Query(ctx context.Context, q model.ProductQuery) ([]model.Product, error)
	Count(ctx context.Context, f model.ProductFilter) (int, error)
	Search(ctx context.Context, term string) ([]model.Product, error)
	TopRated(ctx context.Context, limit int) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
	Delete(ctx context.Context, id string) error
}

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	MarkPaid(ctx context.Context, id string, at time.Time) error
	MarkDelivered(ctx context.Context, id string, at time.Time) error
}

type SavedCartStore interface {
	GetByUser(ctx context.Context, userID string) (*model.SavedCart, error)
	Upsert(ctx context.Context, c *model.SavedCart) error
	DeleteByUser(ctx context.Context, userID string) error
}

type CouponStore interface {
	Create(ctx context.Context, c *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

type WebhookStore interface {
	Upsert(ctx context.Context, w *model.Webhook) error
	GetByUser(ctx context.Context, userID string) (*model.Webhook, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// Notifier hands events off for asynchronous delivery. It must not block.
type Notifier interface {
	Notify(ctx context.Context, e notify.Event)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanActFor reports whether the actor may operate on userID's records.
func (a Actor) CanActFor(userID string) bool {
	return a.ID == userID || a.IsAdmin()
}
