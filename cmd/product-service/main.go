package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopmesh/shopmesh/internal/pkg/env"
	"github.com/shopmesh/shopmesh/internal/pkg/telemetry"
	"github.com/shopmesh/shopmesh/internal/product-service/app"
	"github.com/shopmesh/shopmesh/internal/product-service/domain"
	"github.com/shopmesh/shopmesh/internal/product-service/httpx"
)

func main() {
	telemetry.InitLogger("product-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, env.Get("OTEL_SERVICE_NAME", "product-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	catalog := app.NewCatalog()
	seedDemoProducts(catalog)

	router := httpx.NewRouter(httpx.NewHandler(catalog))

	addr := ":" + env.Get("PRODUCT_SERVICE_PORT", "3002")
	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "product-service"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("product service running", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func seedDemoProducts(catalog *app.Catalog) {
	now := time.Now().UTC()
	catalog.Seed(&domain.Product{
		ID:          "1",
		Name:        "Laptop",
		Description: "High-performance laptop",
		Price:       999.99,
		Category:    "Electronics",
		Stock:       50,
		CreatedAt:   now,
	})
	catalog.Seed(&domain.Product{
		ID:          "2",
		Name:        "Smartphone",
		Description: "Latest smartphone model",
		Price:       699.99,
		Category:    "Electronics",
		Stock:       100,
		CreatedAt:   now,
	})
}
