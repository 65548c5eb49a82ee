package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopmesh/shopmesh/internal/pkg/httpmeta"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpmeta.Propagate)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/products", handler.List)
	r.Get("/products/{id}", handler.Get)
	r.Post("/products", handler.Create)
	r.Patch("/products/{id}/stock", handler.UpdateStock)
	r.Get("/health", health)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": "product-service",
		"status":  "healthy",
	})
}
