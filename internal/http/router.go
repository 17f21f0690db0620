package http

import (
	"net/http"
	"time"

	authservice "github.com/VISCOUS-ASH/ElectroStore/internal/auth/service"
	checkoutservice "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/service"
	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/toast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Carts          CartAPI
	Checkout       checkoutservice.CheckoutService
	Orders         OrderAPI
	Products       ProductStore
	Auth           authservice.AuthService
	Toasts         *toast.Queue
	RequestTimeout time.Duration
	TokenTTL       time.Duration
	MaxBodySize    int64
}

func NewRouter(deps RouterDeps) chi.Router {
	cartHandler := NewCartHandler(deps.Carts, deps.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.RequestTimeout)
	orderHandler := NewOrderHandler(deps.Orders, deps.RequestTimeout)
	productHandler := NewProductHandler(deps.Products, deps.RequestTimeout)
	authHandler := NewAuthHandler(deps.Auth, deps.TokenTTL, deps.RequestTimeout)
	notificationHandler := NewNotificationHandler(deps.Toasts)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	if deps.MaxBodySize > 0 {
		r.Use(MaxBodyBytes(deps.MaxBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{id}", productHandler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/{order_number}", orderHandler.GetOrder)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Get("/notifications", notificationHandler.ListActive)
		r.Delete("/notifications/{id}", notificationHandler.Dismiss)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(deps.Auth))

			r.Get("/orders", orderHandler.ListOrders)
			r.Patch("/orders/{order_number}/status", orderHandler.UpdateStatus)

			r.Post("/products", productHandler.CreateProduct)
			r.Put("/products/{id}", productHandler.UpdateProduct)
			r.Delete("/products/{id}", productHandler.DeleteProduct)
		})
	})

	return r
}
