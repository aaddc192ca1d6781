package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/vG1v/ecommerce-app-backend/internal/metrics"
)

type Server struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewServer(db *sql.DB, log *logrus.Logger) *Server {
	return &Server{db: db, log: log}
}

func (s *Server) Router(requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public catalog + auth
	r.Get("/products", s.handleListProducts)
	r.Get("/products/search", s.handleSearchProducts)
	r.Get("/products/featured", s.handleFeaturedProducts)
	r.Get("/products/{id}", s.handleGetProduct)
	r.Get("/products/{id}/images", s.handleListProductImages)
	r.Get("/vendors", s.handleListVendors)
	r.Get("/vendors/{id}", s.handleGetVendor)
	r.Get("/vendors/{id}/products", s.handleVendorProducts)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/user", s.handleCurrentUser)
		r.Post("/logout", s.handleLogout)

		r.Get("/cart", s.handleGetCart)
		r.Post("/cart/add", s.handleAddCartItem)
		r.Put("/cart/items/{id}", s.handleUpdateCartItem)
		r.Delete("/cart/items/{id}", s.handleRemoveCartItem)
		r.Delete("/cart/clear", s.handleClearCart)
		r.Get("/cart/count", s.handleCartCount)

		r.Get("/wishlist", s.handleGetWishlist)
		r.Post("/wishlist/add", s.handleAddWishlistItem)
		r.Delete("/wishlist/items/{id}", s.handleRemoveWishlistItem)
		r.Delete("/wishlist/clear", s.handleClearWishlist)
		r.Get("/wishlist/check/{productID}", s.handleCheckWishlistItem)
		r.Get("/wishlist/count", s.handleWishlistCount)

		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handlePlaceOrder)
		r.Get("/orders/recent", s.handleRecentOrders)
		r.Get("/orders/stats", s.handleOrderStats)
		r.Get("/orders/{id}", s.handleGetOrder)
		r.Post("/orders/{id}/cancel", s.handleCancelOrder)

		r.Post("/vendors", s.handleCreateVendor)
		r.Get("/vendor/profile", s.handleVendorProfile)
	})

	// Admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAuth, s.requireAdmin)

		r.Get("/dashboard/stats", s.handleDashboardStats)

		r.Get("/orders", s.handleAdminListOrders)
		r.Get("/orders/{id}", s.handleAdminGetOrder)
		r.Put("/orders/{id}/status", s.handleAdminUpdateOrderStatus)

		r.Get("/products", s.handleAdminListProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Put("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)
		r.Put("/products/{id}/status", s.handleUpdateProductStatus)
		r.Put("/products/{id}/featured", s.handleToggleProductFeatured)
		r.Post("/products/{id}/images", s.handleAddProductImage)
		r.Delete("/images/{id}", s.handleDeleteImage)

		r.Get("/vendors", s.handleListVendors)
		r.Get("/vendors/{id}", s.handleGetVendor)
		r.Put("/vendors/{id}/status", s.handleUpdateVendorStatus)

		r.Get("/users", s.handleAdminListUsers)
		r.Get("/users/{id}", s.handleAdminGetUser)
		r.Post("/users/{id}/role", s.handleAdminSetUserRole)
	})

	return r
}
