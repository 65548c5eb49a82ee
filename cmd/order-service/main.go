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

	"github.com/shopmesh/shopmesh/internal/order-service/app"
	"github.com/shopmesh/shopmesh/internal/order-service/clients"
	"github.com/shopmesh/shopmesh/internal/order-service/httpx"
	"github.com/shopmesh/shopmesh/internal/pkg/cache"
	"github.com/shopmesh/shopmesh/internal/pkg/env"
	"github.com/shopmesh/shopmesh/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("order-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, env.Get("OTEL_SERVICE_NAME", "order-service"))
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

	userClient := clients.NewUserClient(env.Get("USER_SERVICE_URL", "http://localhost:3001"), nil)
	productClient := clients.NewProductClient(env.Get("PRODUCT_SERVICE_URL", "http://localhost:3002"), nil)

	service := app.NewService(
		userClient,
		productClient,
		app.NewStore(),
		env.GetDuration("CONFIRM_DELAY", app.DefaultConfirmDelay),
	)
	defer service.Shutdown()

	// Idempotent replay is opt-in: without Redis every POST runs the full
	// orchestration.
	var replayCache cache.Cache
	if redisAddr := env.Get("REDIS_ADDR", ""); redisAddr != "" {
		replayCache = cache.NewRedisCache(redisAddr, "order")
	}

	router := httpx.NewRouter(httpx.NewHandler(service, replayCache))

	addr := ":" + env.Get("ORDER_SERVICE_PORT", "3003")
	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "order-service"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("order service running", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
