// Package httpmeta propagates per-request metadata (request id, idempotency
// key) across service boundaries via HTTP headers and context values.
package httpmeta

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId      = "X-Request-Id"
	HeaderXIdempotencyKey = "X-Idempotency-Key"

	ctxKeyRequestID      contextKey = "request_id"
	ctxKeyIdempotencyKey contextKey = "idempotency_key"
)

// Propagate is an HTTP middleware that copies the chi request id and the
// caller-supplied idempotency key into the request context, so handlers and
// outbound clients can read them without touching headers again.
func Propagate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderXRequestId)
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		idempotencyKey := r.Header.Get(HeaderXIdempotencyKey)

		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		ctx = context.WithValue(ctx, ctxKeyIdempotencyKey, idempotencyKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the propagated request id, or "" when none is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// IdempotencyKey returns the caller-supplied idempotency key, or "".
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeyIdempotencyKey).(string)
	return key
}

// Inject stamps the propagated metadata onto an outbound request.
func Inject(ctx context.Context, req *http.Request) {
	if id := RequestID(ctx); id != "" {
		req.Header.Set(HeaderXRequestId, id)
	}
	if key := IdempotencyKey(ctx); key != "" {
		req.Header.Set(HeaderXIdempotencyKey, key)
	}
}

// ClientKey identifies the remote client of a request for rate limiting.
// The port is stripped so a client keeps one window across connections.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
