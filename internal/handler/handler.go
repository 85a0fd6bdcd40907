package handler

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/service"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id string, upd service.ProfileUpdate) (*service.AuthResult, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) ([]model.CartLine, error)
	RemoveItem(ctx context.Context, userID, productID string) ([]model.CartLine, error)
	GetCart(ctx context.Context, userID string) ([]model.ResolvedCartLine, error)
	Checkout(ctx context.Context, userID string) (*service.CheckoutResult, error)
}

type ProductService interface {
	List(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Search(ctx context.Context, term string) ([]model.Product, error)
	TopRated(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, in service.NewProduct) (*model.Product, error)
	Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type CouponService interface {
	Apply(ctx context.Context, code string, totalAmount float64) (model.CouponResult, error)
	Create(ctx context.Context, code string, percent float64, expiry time.Time) (*model.Coupon, error)
}

type OrderService interface {
	Create(ctx context.Context, actor service.Actor, items []model.OrderItem) (*model.Order, error)
	ListMine(ctx context.Context, actor service.Actor) ([]model.Order, error)
	Get(ctx context.Context, actor service.Actor, id string) (*model.Order, error)
	MarkPaid(ctx context.Context, actor service.Actor, id string) (*model.Order, error)
	MarkDelivered(ctx context.Context, actor service.Actor, id string) (*model.Order, error)
}

type SavedCartService interface {
	Get(ctx context.Context, actor service.Actor, userID string) (*model.SavedCart, error)
	AddItem(ctx context.Context, actor service.Actor, userID, productID string, quantity int) (*model.SavedCart, error)
	RemoveItem(ctx context.Context, actor service.Actor, userID, productID string) (*model.SavedCart, error)
}

type WebhookService interface {
	Register(ctx context.Context, userID, rawURL string) (*model.Webhook, error)
	Get(ctx context.Context, userID string) (*model.Webhook, error)
	Delete(ctx context.Context, userID string) error
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Services struct {
	Users      UserService
	Cart       CartService
	Products   ProductService
	Coupons    CouponService
	Orders     OrderService
	SavedCarts SavedCartService
	Webhooks   WebhookService
}

type Options struct {
	AllowedOrigins []string
}

type Handler struct {
	router *chi.Mux
	svc    Services
	tokens TokenVerifier
	logger *log.Logger
}

func NewHandler(svc Services, tokens TokenVerifier, opts Options, logger *log.Logger) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	compressor := middleware.NewCompressor(5, "application/json", "text/plain")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	router.Use(compressor.Handler)

	h := &Handler{
		router: router,
		svc:    svc,
		tokens: tokens,
		logger: logger,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/health", h.HealthCheck)

	h.router.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Get("/profile", h.GetProfile)
				r.Put("/profile", h.UpdateProfile)

				r.With(requireRole(model.RoleAdmin)).Get("/", h.ListUsers)
				r.With(requireRole(model.RoleAdmin)).Delete("/{id}", h.DeleteUser)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/top", h.TopProducts)
			r.Get("/search/{query}", h.SearchProducts)
			r.Get("/{id}", h.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Post("/apply-coupon", h.ApplyCoupon)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(model.RoleSeller, model.RoleAdmin))
					r.Post("/create-coupon", h.CreateCoupon)
					r.Post("/", h.CreateProduct)
					r.Put("/{id}", h.UpdateProduct)
				})

				r.With(requireRole(model.RoleAdmin)).Delete("/{id}", h.DeleteProduct)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Use(requireRole(model.RoleBuyer))
			r.Get("/", h.GetCart)
			r.Post("/add", h.AddToCart)
			r.Delete("/remove/{productId}", h.RemoveFromCart)
			r.Post("/checkout", h.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/", h.CreateOrder)
			r.Get("/mine", h.MyOrders)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}/pay", h.PayOrder)
			r.With(requireRole(model.RoleAdmin)).Put("/{id}/deliver", h.DeliverOrder)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/", h.AddToSavedCart)
			r.Get("/{userId}", h.GetSavedCart)
			r.Delete("/{userId}/{productId}", h.RemoveFromSavedCart)
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Put("/", h.RegisterWebhook)
			r.Get("/", h.GetWebhook)
			r.Delete("/", h.DeleteWebhook)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
