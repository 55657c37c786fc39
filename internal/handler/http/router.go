package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelfline/bookmarket/internal/auth"
	"github.com/shelfline/bookmarket/internal/user"
)

// Handlers bundles the per-domain handlers the router composes.
type Handlers struct {
	Auth     *AuthHandler
	Book     *BookHandler
	Order    *OrderHandler
	Wishlist *WishlistHandler
}

// NewRouter assembles the full HTTP surface. Public routes need no token,
// protected routes run through the auth middleware, and role-specific
// subtrees are additionally guarded by RequireRole.
func NewRouter(authService auth.Service, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		h.Auth.RegisterPublicRoutes(api)
		h.Book.RegisterPublicRoutes(api)
		h.Wishlist.RegisterPublicRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(auth.Middleware(authService))

			h.Auth.RegisterProtectedRoutes(protected)

			protected.Group(func(buyer chi.Router) {
				buyer.Use(auth.RequireRole(user.RoleBuyer))
				h.Order.RegisterBuyerRoutes(buyer)
				h.Wishlist.RegisterBuyerRoutes(buyer)
			})

			protected.Group(func(seller chi.Router) {
				seller.Use(auth.RequireRole(user.RoleSeller))
				h.Book.RegisterSellerRoutes(seller)
				h.Order.RegisterSellerRoutes(seller)
			})
		})
	})

	return r
}
