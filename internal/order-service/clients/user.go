// Package clients holds the HTTP adapters the order orchestrator uses to
// reach the user and product services. Each adapter implements its app-layer
// port; trace context and request metadata are propagated on every call.
//
// No timeout is imposed on outbound calls and no call is retried; a hung or
// failed dependency fails the enclosing request outright.
package clients

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopmesh/shopmesh/internal/order-service/app"
	"github.com/shopmesh/shopmesh/internal/pkg/httpmeta"
)

// Ensure the adapter satisfies the port at compile time.
var _ app.UserGateway = (*UserClient)(nil)

type UserClient struct {
	baseURL string
	http    *http.Client
}

// NewUserClient builds a user service adapter. Pass httpClient nil to get a
// trace-instrumented default client.
func NewUserClient(baseURL string, httpClient *http.Client) *UserClient {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &UserClient{baseURL: baseURL, http: httpClient}
}

// VerifyUser checks that the user profile exists. Any failure — 404, another
// status, or a transport error — is reported the same way; the orchestrator
// treats them all as an invalid user.
func (c *UserClient) VerifyUser(ctx context.Context, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile/"+userID, nil)
	if err != nil {
		return fmt.Errorf("build profile request: %w", err)
	}
	httpmeta.Inject(ctx, req)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch profile for user %s: %w", userID, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch profile for user %s: status %d", userID, res.StatusCode)
	}
	return nil
}
