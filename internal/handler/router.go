package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/storefront-system/internal/middleware"
)

// SetupRouter собирает маршруты API интернет-магазина.
func (h *Handler) SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.GzipMiddleware)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/refresh-token", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Get("/profile", h.Profile)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/featured", h.GetFeaturedProducts)
		r.Get("/category/{category}", h.GetProductsByCategory)
		r.Get("/recommendations", h.GetRecommendedProducts)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware, h.authMiddleware.RequireAdmin)
			r.Get("/", h.GetAllProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Patch("/{id}", h.ToggleFeaturedProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)
		r.Get("/", h.GetCart)
		r.Post("/", h.AddToCart)
		r.Put("/{id}", h.UpdateCartItem)
		r.Delete("/", h.RemoveFromCart)
		r.Delete("/clear", h.ClearCart)
	})

	r.Route("/api/coupons", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)
		r.Get("/", h.GetCoupon)
		r.Post("/validate", h.ValidateCoupon)
	})

	r.Route("/api/payment", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)
		r.Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Post("/checkout-success", h.CheckoutSuccess)
		r.Post("/create-alternative-order", h.CreateAlternativeOrder)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)
		r.Get("/user", h.GetUserOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/receipt", h.DownloadReceipt)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.RequireAdmin)
			r.Get("/admin", h.GetAdminOrders)
			r.Patch("/{id}/status", h.UpdateOrderStatus)
		})
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware, h.authMiddleware.RequireAdmin)
		r.Get("/", h.GetAnalytics)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		h.writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		h.writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
