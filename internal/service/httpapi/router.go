package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршруты витрины и админ-панели.
// Публичны только регистрация, вход и каталог; корзина и заказы требуют
// сессии, /admin — роли admin.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/auth/register", handler.Register)
	r.Post("/auth/login", handler.Login)

	r.Get("/products", handler.ListProducts)

	r.Group(func(r chi.Router) {
		r.Use(handler.requireSession)

		r.Post("/auth/logout", handler.Logout)

		r.Get("/cart", handler.GetCart)
		r.Post("/cart/items", handler.AddCartItem)
		r.Patch("/cart/items/{productID}", handler.UpdateCartItem)
		r.Delete("/cart/items/{productID}", handler.RemoveCartItem)
		r.Delete("/cart", handler.ClearCart)

		r.Get("/geo/address", handler.SuggestAddress)

		r.Post("/orders", handler.CreateOrder)
		r.Get("/orders", handler.ListOrders)
		r.Get("/orders/{id}", handler.GetOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.requireAdmin)

			r.Post("/orders/{id}/status", handler.UpdateOrderStatus)
			r.Get("/users", handler.ListUsers)
			r.Post("/products", handler.CreateProduct)
			r.Patch("/products/{id}", handler.UpdateProduct)
			r.Delete("/products/{id}", handler.DeleteProduct)
		})
	})

	return r
}
