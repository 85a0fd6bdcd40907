package handler_test

import (
	"context"
	"errors"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/service"
)

var errNotMocked = errors.New("not mocked")

type tokenMock map[string]string

func (m tokenMock) Verify(token string) (string, error) {
	id, ok := m[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return id, nil
}

type usersMock struct {
	users         map[string]*model.User
	RegisterFunc  func(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	LoginFunc     func(ctx context.Context, email, password string) (*service.AuthResult, error)
	UpdateFunc    func(ctx context.Context, id string, upd service.ProfileUpdate) (*service.AuthResult, error)
	DeleteFunc    func(ctx context.Context, id string) error
	ListUsersFunc func(ctx context.Context) ([]model.User, error)
}

func (m *usersMock) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	if m.RegisterFunc == nil {
		return nil, errNotMocked
	}
	return m.RegisterFunc(ctx, in)
}

func (m *usersMock) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFunc == nil {
		return nil, errNotMocked
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *usersMock) Get(ctx context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (m *usersMock) List(ctx context.Context) ([]model.User, error) {
	if m.ListUsersFunc == nil {
		return nil, errNotMocked
	}
	return m.ListUsersFunc(ctx)
}

func (m *usersMock) UpdateProfile(ctx context.Context, id string, upd service.ProfileUpdate) (*service.AuthResult, error) {
	if m.UpdateFunc == nil {
		return nil, errNotMocked
	}
	return m.UpdateFunc(ctx, id, upd)
}

func (m *usersMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return errNotMocked
	}
	return m.DeleteFunc(ctx, id)
}

type cartMock struct {
	AddItemFunc    func(ctx context.Context, userID, productID string, quantity int) ([]model.CartLine, error)
	RemoveItemFunc func(ctx context.Context, userID, productID string) ([]model.CartLine, error)
	GetCartFunc    func(ctx context.Context, userID string) ([]model.ResolvedCartLine, error)
	CheckoutFunc   func(ctx context.Context, userID string) (*service.CheckoutResult, error)
}

func (m *cartMock) AddItem(ctx context.Context, userID, productID string, quantity int) ([]model.CartLine, error) {
	if m.AddItemFunc == nil {
		return nil, errNotMocked
	}
	return m.AddItemFunc(ctx, userID, productID, quantity)
}

func (m *cartMock) RemoveItem(ctx context.Context, userID, productID string) ([]model.CartLine, error) {
	if m.RemoveItemFunc == nil {
		return nil, errNotMocked
	}
	return m.RemoveItemFunc(ctx, userID, productID)
}

func (m *cartMock) GetCart(ctx context.Context, userID string) ([]model.ResolvedCartLine, error) {
	if m.GetCartFunc == nil {
		return nil, errNotMocked
	}
	return m.GetCartFunc(ctx, userID)
}

func (m *cartMock) Checkout(ctx context.Context, userID string) (*service.CheckoutResult, error) {
	if m.CheckoutFunc == nil {
		return nil, errNotMocked
	}
	return m.CheckoutFunc(ctx, userID)
}

type productsMock struct {
	ListFunc   func(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error)
	GetFunc    func(ctx context.Context, id string) (*model.Product, error)
	CreateFunc func(ctx context.Context, in service.NewProduct) (*model.Product, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *productsMock) List(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	if m.ListFunc == nil {
		return nil, errNotMocked
	}
	return m.ListFunc(ctx, q)
}

func (m *productsMock) Get(ctx context.Context, id string) (*model.Product, error) {
	if m.GetFunc == nil {
		return nil, errNotMocked
	}
	return m.GetFunc(ctx, id)
}

func (m *productsMock) Search(ctx context.Context, term string) ([]model.Product, error) {
	return nil, errNotMocked
}

func (m *productsMock) TopRated(ctx context.Context) ([]model.Product, error) {
	return nil, errNotMocked
}

func (m *productsMock) Create(ctx context.Context, in service.NewProduct) (*model.Product, error) {
	if m.CreateFunc == nil {
		return nil, errNotMocked
	}
	return m.CreateFunc(ctx, in)
}

func (m *productsMock) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	return nil, errNotMocked
}

func (m *productsMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return errNotMocked
	}
	return m.DeleteFunc(ctx, id)
}

type couponsMock struct {
	ApplyFunc  func(ctx context.Context, code string, totalAmount float64) (model.CouponResult, error)
	CreateFunc func(ctx context.Context, code string, percent float64, expiry time.Time) (*model.Coupon, error)
}

func (m *couponsMock) Apply(ctx context.Context, code string, totalAmount float64) (model.CouponResult, error) {
	if m.ApplyFunc == nil {
		return model.CouponResult{}, errNotMocked
	}
	return m.ApplyFunc(ctx, code, totalAmount)
}

func (m *couponsMock) Create(ctx context.Context, code string, percent float64, expiry time.Time) (*model.Coupon, error) {
	if m.CreateFunc == nil {
		return nil, errNotMocked
	}
	return m.CreateFunc(ctx, code, percent, expiry)
}

type ordersMock struct {
	GetFunc func(ctx context.Context, actor service.Actor, id string) (*model.Order, error)
}

func (m *ordersMock) Create(ctx context.Context, actor service.Actor, items []model.OrderItem) (*model.Order, error) {
	return nil, errNotMocked
}

func (m *ordersMock) ListMine(ctx context.Context, actor service.Actor) ([]model.Order, error) {
	return nil, errNotMocked
}

func (m *ordersMock) Get(ctx context.Context, actor service.Actor, id string) (*model.Order, error) {
	if m.GetFunc == nil {
		return nil, errNotMocked
	}
	return m.GetFunc(ctx, actor, id)
}

func (m *ordersMock) MarkPaid(ctx context.Context, actor service.Actor, id string) (*model.Order, error) {
	return nil, errNotMocked
}

func (m *ordersMock) MarkDelivered(ctx context.Context, actor service.Actor, id string) (*model.Order, error) {
	return &model.Order{ID: id, IsDelivered: true}, nil
}

type savedCartsMock struct {
	AddItemFunc    func(ctx context.Context, actor service.Actor, userID, productID string, quantity int) (*model.SavedCart, error)
	RemoveItemFunc func(ctx context.Context, actor service.Actor, userID, productID string) (*model.SavedCart, error)
}

func (m *savedCartsMock) Get(ctx context.Context, actor service.Actor, userID string) (*model.SavedCart, error) {
	return nil, errNotMocked
}

func (m *savedCartsMock) AddItem(ctx context.Context, actor service.Actor, userID, productID string, quantity int) (*model.SavedCart, error) {
	if m.AddItemFunc == nil {
		return nil, errNotMocked
	}
	return m.AddItemFunc(ctx, actor, userID, productID, quantity)
}

func (m *savedCartsMock) RemoveItem(ctx context.Context, actor service.Actor, userID, productID string) (*model.SavedCart, error) {
	if m.RemoveItemFunc == nil {
		return nil, errNotMocked
	}
	return m.RemoveItemFunc(ctx, actor, userID, productID)
}

type webhooksMock struct {
	RegisterFunc func(ctx context.Context, userID, rawURL string) (*model.Webhook, error)
}

func (m *webhooksMock) Register(ctx context.Context, userID, rawURL string) (*model.Webhook, error) {
	if m.RegisterFunc == nil {
		return nil, errNotMocked
	}
	return m.RegisterFunc(ctx, userID, rawURL)
}

func (m *webhooksMock) Get(ctx context.Context, userID string) (*model.Webhook, error) {
	return nil, apperr.NotFound("webhook not found")
}

func (m *webhooksMock) Delete(ctx context.Context, userID string) error {
	return errNotMocked
}
