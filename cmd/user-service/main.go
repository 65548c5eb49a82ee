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
	"github.com/shopmesh/shopmesh/internal/user-service/app"
	"github.com/shopmesh/shopmesh/internal/user-service/httpx"
)

func main() {
	telemetry.InitLogger("user-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, env.Get("OTEL_SERVICE_NAME", "user-service"))
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

	service := app.NewService([]byte(env.Get("JWT_SECRET", "your-secret-key")))

	// Demo account so the system is usable out of the box.
	if _, err := service.Register(ctx, "john@example.com", "password123", "John", "Doe"); err != nil {
		slog.Warn("failed to seed demo user", "error", err)
	}

	router := httpx.NewRouter(httpx.NewHandler(service))

	addr := ":" + env.Get("USER_SERVICE_PORT", "3001")
	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "user-service"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("user service running", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
