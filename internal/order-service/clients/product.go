package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopmesh/shopmesh/internal/order-service/app"
	"github.com/shopmesh/shopmesh/internal/pkg/httpmeta"
)

var _ app.ProductGateway = (*ProductClient)(nil)

type ProductClient struct {
	baseURL string
	http    *http.Client
}

func NewProductClient(baseURL string, httpClient *http.Client) *ProductClient {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &ProductClient{baseURL: baseURL, http: httpClient}
}

// productDTO mirrors the product service's response shape; only the fields
// the orchestrator needs are decoded.
type productDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func (c *ProductClient) GetProduct(ctx context.Context, productID string) (*app.ProductInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+productID, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}
	httpmeta.Inject(ctx, req)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch product %s: status %d", productID, res.StatusCode)
	}

	var dto productDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}
	return &app.ProductInfo{
		ID:    dto.ID,
		Name:  dto.Name,
		Price: dto.Price,
		Stock: dto.Stock,
	}, nil
}

// DecrementStock issues the stock decrement for an order item. The product
// service rejects a decrement below zero, so a race lost against a
// concurrent order surfaces here as a non-200 status.
func (c *ProductClient) DecrementStock(ctx context.Context, productID string, quantity int) error {
	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return fmt.Errorf("encode stock request: %w", err)
	}

	url := c.baseURL + "/products/" + productID + "/stock"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build stock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	httpmeta.Inject(ctx, req)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("decrement stock for product %s: %w", productID, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("decrement stock for product %s: status %d", productID, res.StatusCode)
	}
	return nil
}
