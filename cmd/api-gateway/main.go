package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopmesh/shopmesh/internal/api-gateway/httpx"
	"github.com/shopmesh/shopmesh/internal/api-gateway/middlewares"
	"github.com/shopmesh/shopmesh/internal/api-gateway/registry"
	"github.com/shopmesh/shopmesh/internal/pkg/env"
	"github.com/shopmesh/shopmesh/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("api-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, env.Get("OTEL_SERVICE_NAME", "api-gateway"))
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

	// Static for the process lifetime; a service may list several
	// endpoints, comma-separated, for round-robin rotation.
	reg, err := registry.New(map[string][]string{
		httpx.ServiceUsers:    endpointList("USER_SERVICE_URL", "http://localhost:3001"),
		httpx.ServiceProducts: endpointList("PRODUCT_SERVICE_URL", "http://localhost:3002"),
		httpx.ServiceOrders:   endpointList("ORDER_SERVICE_URL", "http://localhost:3003"),
	})
	if err != nil {
		slog.Error("invalid service registry", "error", err)
		os.Exit(1)
	}

	limiter := middlewares.NewRateLimiter(
		env.GetDuration("RATE_LIMIT_WINDOW", middlewares.DefaultWindow),
		env.GetInt("RATE_LIMIT_MAX", middlewares.DefaultMaxRequests),
	)

	router := httpx.NewRouter(httpx.Config{
		Balancer:  registry.NewBalancer(reg),
		Limiter:   limiter,
		JWTSecret: []byte(env.Get("JWT_SECRET", "your-secret-key")),
	})

	addr := ":" + env.Get("GATEWAY_PORT", "3000")
	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "api-gateway"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("api gateway running", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func endpointList(key, fallback string) []string {
	raw := env.Get(key, fallback)
	parts := strings.Split(raw, ",")
	endpoints := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			endpoints = append(endpoints, p)
		}
	}
	return endpoints
}
