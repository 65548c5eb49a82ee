// Package httpx assembles the gateway pipeline: every request passes the
// rate limiter first, then (for order routes) the auth gate, and only then
// reaches the balancer-backed reverse proxy. A rejection at any stage writes
// its response and terminates the chain.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopmesh/shopmesh/internal/api-gateway/middlewares"
	"github.com/shopmesh/shopmesh/internal/api-gateway/proxy"
	"github.com/shopmesh/shopmesh/internal/api-gateway/registry"
	"github.com/shopmesh/shopmesh/internal/pkg/httpmeta"
)

// Service names as registered in the gateway's service registry.
const (
	ServiceUsers    = "users"
	ServiceProducts = "products"
	ServiceOrders   = "orders"
)

type Config struct {
	Balancer  *registry.Balancer
	Limiter   *middlewares.RateLimiter
	JWTSecret []byte
}

func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpmeta.Propagate)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cfg.Limiter.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service":   "api-gateway",
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Mount("/api/users", proxy.NewDispatcher(cfg.Balancer, ServiceUsers, "/api/users"))
	r.Mount("/api/products", proxy.NewDispatcher(cfg.Balancer, ServiceProducts, "/api/products"))

	// Orders are the only route group behind the auth gate.
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middlewares.RequireAuth(cfg.JWTSecret))
		r.Mount("/", proxy.NewDispatcher(cfg.Balancer, ServiceOrders, "/api/orders"))
	})

	return r
}
