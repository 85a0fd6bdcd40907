package service

import (
	"context"
	"errors"
	"testing"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	tx       *fakeTx
	users    *fakeUsers
	products *fakeProducts
	orders   *fakeOrders
	notifier *fakeNotifier
	svc      *CartService
}

func newCartFixture(user *model.User, products ...*model.Product) *cartFixture {
	f := &cartFixture{
		tx:       &fakeTx{},
		users:    newFakeUsers(user),
		products: newFakeProducts(products...),
		orders:   newFakeOrders(),
		notifier: &fakeNotifier{},
	}
	f.svc = NewCartService(f.tx, f.users, f.products, f.orders, f.notifier)
	return f
}

func TestAddItem_NewLine(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Balance: 100},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 5},
	)

	cart, err := f.svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p1", Quantity: 2}}, cart)
	assert.Equal(t, cart, f.users.users["u1"].Cart)
	assert.Equal(t, 1, f.tx.calls)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Cart: []model.CartLine{{ProductID: "p1", Quantity: 2}}},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 5},
	)

	cart, err := f.svc.AddItem(context.Background(), "u1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p1", Quantity: 5}}, cart)
}

func TestAddItem_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cart     []model.CartLine
		product  string
		quantity int
		kind     apperr.Kind
	}{
		{name: "zero quantity", product: "p1", quantity: 0, kind: apperr.KindValidation},
		{name: "negative quantity", product: "p1", quantity: -1, kind: apperr.KindValidation},
		{name: "unknown product", product: "missing", quantity: 1, kind: apperr.KindNotFound},
		{name: "more than stock", product: "p1", quantity: 6, kind: apperr.KindConflict},
		{
			name:     "merged line exceeds stock",
			cart:     []model.CartLine{{ProductID: "p1", Quantity: 4}},
			product:  "p1",
			quantity: 2,
			kind:     apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(
				&model.User{ID: "u1", Cart: tt.cart},
				&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 5},
			)

			_, err := f.svc.AddItem(context.Background(), "u1", tt.product, tt.quantity)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Equal(t, tt.cart, f.users.users["u1"].Cart)
		})
	}
}

func TestAddItem_UnknownUser(t *testing.T) {
	f := newCartFixture(&model.User{ID: "u1"}, &model.Product{ID: "p1", Stock: 5})

	_, err := f.svc.AddItem(context.Background(), "nobody", "p1", 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRemoveItem_KeepsOrder(t *testing.T) {
	f := newCartFixture(&model.User{ID: "u1", Cart: []model.CartLine{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
		{ProductID: "c", Quantity: 3},
	}})

	cart, err := f.svc.RemoveItem(context.Background(), "u1", "b")
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "a", Quantity: 1}, {ProductID: "c", Quantity: 3}}, cart)
	assert.Equal(t, cart, f.users.users["u1"].Cart)
}

func TestRemoveItem_NotInCart(t *testing.T) {
	original := []model.CartLine{{ProductID: "a", Quantity: 1}}
	f := newCartFixture(&model.User{ID: "u1", Cart: original})

	_, err := f.svc.RemoveItem(context.Background(), "u1", "zzz")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, original, f.users.users["u1"].Cart)
}

func TestGetCart_ResolvesProducts(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Cart: []model.CartLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "gone", Quantity: 2},
		}},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 5},
	)

	lines, err := f.svc.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Mug", lines[0].Product.Name)
	assert.Equal(t, "gone", lines[1].ProductID)
	assert.Nil(t, lines[1].Product)
}

func TestCheckout_Success(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Balance: 100, Cart: []model.CartLine{{ProductID: "p1", Quantity: 2}}},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 5},
	)

	res, err := f.svc.Checkout(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 40.0, res.Balance)
	assert.Equal(t, 60.0, res.Total)
	assert.NotEmpty(t, res.OrderID)

	user := f.users.users["u1"]
	assert.Equal(t, 40.0, user.Balance)
	assert.Empty(t, user.Cart)
	assert.Equal(t, 3, f.products.stock("p1"))

	order, ok := f.orders.orders[res.OrderID]
	require.True(t, ok)
	assert.Equal(t, "u1", order.UserID)
	assert.True(t, order.IsPaid)
	assert.NotNil(t, order.PaidAt)
	assert.Equal(t, 60.0, order.TotalPrice)
	assert.Equal(t, []model.OrderItem{{ProductID: "p1", Quantity: 2}}, order.Items)

	require.Len(t, f.notifier.events, 1)
	ev := f.notifier.events[0]
	assert.Equal(t, notify.EventCheckoutCompleted, ev.Name)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, res.OrderID, ev.OrderID)
	assert.Equal(t, 40.0, ev.Balance)
}

func TestCheckout_ExactBalance(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Balance: 0.3, Cart: []model.CartLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		}},
		&model.Product{ID: "p1", Name: "A", Price: 0.1, Stock: 1},
		&model.Product{ID: "p2", Name: "B", Price: 0.2, Stock: 1},
	)

	res, err := f.svc.Checkout(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Balance)
	assert.Equal(t, 0.3, res.Total)
}

func TestCheckout_FailuresChangeNothing(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		cart    []model.CartLine
		kind    apperr.Kind
	}{
		{
			name:    "not enough stock",
			balance: 100,
			cart:    []model.CartLine{{ProductID: "p1", Quantity: 2}},
			kind:    apperr.KindConflict,
		},
		{
			name:    "insufficient balance",
			balance: 10,
			cart:    []model.CartLine{{ProductID: "p1", Quantity: 1}},
			kind:    apperr.KindConflict,
		},
		{
			name:    "product no longer exists",
			balance: 100,
			cart:    []model.CartLine{{ProductID: "p1", Quantity: 1}, {ProductID: "deleted", Quantity: 1}},
			kind:    apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(
				&model.User{ID: "u1", Balance: tt.balance, Cart: tt.cart},
				&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 1},
			)

			_, err := f.svc.Checkout(context.Background(), "u1")
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))

			user := f.users.users["u1"]
			assert.Equal(t, tt.balance, user.Balance)
			assert.Equal(t, tt.cart, user.Cart)
			assert.Equal(t, 1, f.products.stock("p1"))
			assert.Empty(t, f.orders.orders)
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestCheckout_EmptyCartKeepsBalance(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Balance: 100, Cart: []model.CartLine{}},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 1},
	)

	res, err := f.svc.Checkout(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Balance)
	assert.Equal(t, 0.0, res.Total)
	assert.Empty(t, res.OrderID)

	assert.Equal(t, 100.0, f.users.users["u1"].Balance)
	assert.Equal(t, 1, f.products.stock("p1"))
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.notifier.events)
}

func TestCheckout_DuplicateLinesAggregate(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Balance: 100, Cart: []model.CartLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p1", Quantity: 1},
		}},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 1},
	)

	_, err := f.svc.Checkout(context.Background(), "u1")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, 1, f.products.stock("p1"))
}

func TestCheckout_StoreErrorSkipsNotification(t *testing.T) {
	f := newCartFixture(
		&model.User{ID: "u1", Balance: 100, Cart: []model.CartLine{{ProductID: "p1", Quantity: 1}}},
		&model.Product{ID: "p1", Name: "Mug", Price: 30, Stock: 5},
	)
	f.orders.createErr = errors.New("connection reset")

	_, err := f.svc.Checkout(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, f.notifier.events)
}

func TestPlanCheckout(t *testing.T) {
	products := map[string]*model.Product{
		"p1": {ID: "p1", Name: "Mug", Price: 19.99, Stock: 10},
		"p2": {ID: "p2", Name: "Cup", Price: 5.01, Stock: 3},
	}
	user := &model.User{Balance: 50, Cart: []model.CartLine{
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}}

	plan, err := PlanCheckout(user, products)
	require.NoError(t, err)
	assert.Equal(t, []StockDecrement{{ProductID: "p2", Quantity: 2}, {ProductID: "p1", Quantity: 2}}, plan.Decrements)
	assert.Equal(t, 50.0, plan.Total)
	assert.Equal(t, 0.0, plan.NewBalance)
}
