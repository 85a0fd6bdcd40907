package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/notify"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeUsers struct {
	users   map[string]*model.User
	saveErr error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func copyUser(u *model.User) *model.User {
	cp := *u
	cp.Cart = append([]model.CartLine{}, u.Cart...)
	return &cp
}

func (f *fakeUsers) Create(ctx context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperr.Conflict("user already exists")
		}
	}
	f.users[u.ID] = copyUser(u)
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return copyUser(u), nil
}

func (f *fakeUsers) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUsers) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		out = append(out, *copyUser(u))
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, u *model.User) error {
	existing, ok := f.users[u.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	existing.Name, existing.Email, existing.PasswordHash = u.Name, u.Email, u.PasswordHash
	return nil
}

func (f *fakeUsers) SaveCart(ctx context.Context, userID string, cart []model.CartLine) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Cart = append([]model.CartLine{}, cart...)
	return nil
}

func (f *fakeUsers) SaveBalanceAndCart(ctx context.Context, userID string, balance float64, cart []model.CartLine) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Balance = balance
	u.Cart = append([]model.CartLine{}, cart...)
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.users, id)
	return nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[string]*model.Product
	queryErr error
	lastQ    model.ProductQuery
}

func newFakeProducts(products ...*model.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]*model.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeProducts) Create(ctx context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) GetMany(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]*model.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeProducts) GetManyForUpdate(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	return f.GetMany(ctx, ids)
}

func (f *fakeProducts) filtered(flt model.ProductFilter) []model.Product {
	var out []model.Product
	for _, p := range f.products {
		if flt.Category != nil && p.Category != *flt.Category {
			continue
		}
		if flt.MinPrice != nil && p.Price < *flt.MinPrice {
			continue
		}
		if flt.MaxPrice != nil && p.Price > *flt.MaxPrice {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

func (f *fakeProducts) Query(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	all := f.filtered(q.Filter)
	start := (q.Page - 1) * q.Limit
	if start >= len(all) {
		return []model.Product{}, nil
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeProducts) Count(ctx context.Context, flt model.ProductFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filtered(flt)), nil
}

func (f *fakeProducts) Search(ctx context.Context, term string) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) TopRated(ctx context.Context, limit int) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProducts) Update(ctx context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return apperr.NotFound("product not found")
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProducts) DecrementStock(ctx context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok || p.Stock < quantity {
		return apperr.Conflictf("not enough stock for product %s", productID)
	}
	p.Stock -= quantity
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(f.products, id)
	return nil
}

type fakeOrders struct {
	orders    map[string]*model.Order
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*model.Order{}}
}

func (f *fakeOrders) Create(ctx context.Context, o *model.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *o
	cp.CreatedAt = time.Now()
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) MarkPaid(ctx context.Context, id string, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	o.IsPaid, o.PaidAt = true, &at
	return nil
}

func (f *fakeOrders) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	o.IsDelivered, o.DeliveredAt = true, &at
	return nil
}

type fakeSavedCarts struct {
	carts map[string]*model.SavedCart
}

func newFakeSavedCarts() *fakeSavedCarts {
	return &fakeSavedCarts{carts: map[string]*model.SavedCart{}}
}

func (f *fakeSavedCarts) GetByUser(ctx context.Context, userID string) (*model.SavedCart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, apperr.NotFound("cart not found")
	}
	cp := *c
	cp.Items = append([]model.SavedCartItem{}, c.Items...)
	return &cp, nil
}

func (f *fakeSavedCarts) Upsert(ctx context.Context, c *model.SavedCart) error {
	cp := *c
	cp.Items = append([]model.SavedCartItem{}, c.Items...)
	f.carts[c.UserID] = &cp
	return nil
}

func (f *fakeSavedCarts) DeleteByUser(ctx context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

type fakeCoupons struct {
	coupons map[string]*model.Coupon
}

func newFakeCoupons(coupons ...*model.Coupon) *fakeCoupons {
	f := &fakeCoupons{coupons: map[string]*model.Coupon{}}
	for _, c := range coupons {
		f.coupons[c.Code] = c
	}
	return f
}

func (f *fakeCoupons) Create(ctx context.Context, c *model.Coupon) error {
	if _, ok := f.coupons[c.Code]; ok {
		return apperr.Conflict("coupon code already exists")
	}
	cp := *c
	f.coupons[c.Code] = &cp
	return nil
}

func (f *fakeCoupons) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, apperr.NotFound("coupon not found")
	}
	cp := *c
	return &cp, nil
}

type fakeWebhooks struct {
	hooks map[string]*model.Webhook
}

func (f *fakeWebhooks) Upsert(ctx context.Context, w *model.Webhook) error {
	if existing, ok := f.hooks[w.UserID]; ok {
		w.ID = existing.ID
	}
	cp := *w
	f.hooks[w.UserID] = &cp
	return nil
}

func (f *fakeWebhooks) GetByUser(ctx context.Context, userID string) (*model.Webhook, error) {
	w, ok := f.hooks[userID]
	if !ok {
		return nil, apperr.NotFound("webhook not found")
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWebhooks) DeleteByUser(ctx context.Context, userID string) error {
	if _, ok := f.hooks[userID]; !ok {
		return apperr.NotFound("webhook not found")
	}
	delete(f.hooks, userID)
	return nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Notify(ctx context.Context, e notify.Event) {
	f.events = append(f.events, e)
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID, role string) (string, error) {
	return "token-" + userID + "-" + role, nil
}
