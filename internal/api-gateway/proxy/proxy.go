// Package proxy forwards accepted gateway requests to the backend endpoint
// chosen by the balancer. There is no failover: a transport failure answers
// the caller with a 502-class error rather than retrying another endpoint,
// consistent with the health-unaware balancer.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopmesh/shopmesh/internal/api-gateway/registry"
)

// Dispatcher is an http.Handler that strips its mount prefix from the request
// path and relays the request to the next endpoint of its service. The
// backend's status code and body pass through verbatim.
type Dispatcher struct {
	balancer *registry.Balancer
	service  string
	prefix   string
	proxy    *httputil.ReverseProxy
}

func NewDispatcher(balancer *registry.Balancer, service, prefix string) *Dispatcher {
	d := &Dispatcher{
		balancer: balancer,
		service:  service,
		prefix:   prefix,
	}
	d.proxy = &httputil.ReverseProxy{
		Rewrite:      d.rewrite,
		Transport:    otelhttp.NewTransport(http.DefaultTransport),
		ErrorHandler: errorHandler,
	}
	return d
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.proxy.ServeHTTP(w, r)
}

// rewrite selects the target endpoint and rewrites the outbound URL: the
// mount prefix is dropped so "/api/orders/123" reaches the orders service as
// "/123". Host-specific headers are rewritten; everything else is preserved.
func (d *Dispatcher) rewrite(pr *httputil.ProxyRequest) {
	target, err := d.balancer.Next(d.service)
	if err != nil {
		// Unreachable with a validated registry; surfaces as a dial
		// failure against an empty host if it ever happens.
		slog.Error("no endpoint for service", "service", d.service, "error", err)
		return
	}

	path := strings.TrimPrefix(pr.In.URL.Path, d.prefix)
	if path == "" {
		path = "/"
	}

	pr.SetURL(target)
	pr.Out.URL.Path = path
	pr.Out.URL.RawPath = ""
	pr.Out.Host = target.Host
	pr.SetXForwarded()
}

// errorHandler maps transport failures to the caller: timeouts become 504,
// anything else 502.
func errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	slog.ErrorContext(r.Context(), "proxy error", "path", r.URL.Path, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "bad_gateway",
		"message": "upstream service unreachable",
	})
}
