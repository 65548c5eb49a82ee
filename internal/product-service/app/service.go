// Package app implements the product catalog: filtered listing with
// pagination, creation, and the guarded stock decrement the order
// orchestrator calls during order placement. Records live in a keyed
// in-memory store; insertion order is preserved for listing.
package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/product-service/domain"
)

// ListFilter narrows and paginates a catalog listing. Nil price bounds mean
// unbounded; Page and Limit fall back to 1 and 10.
type ListFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// ListResult carries one page of the filtered catalog.
type ListResult struct {
	Products   []*domain.Product
	TotalCount int
	Page       int
	TotalPages int
}

type Catalog struct {
	mu    sync.Mutex
	byID  map[string]*domain.Product
	order []string // insertion order, for stable listing
}

func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]*domain.Product)}
}

// Create adds a product and returns it with its generated id.
func (c *Catalog) Create(ctx context.Context, name, description string, price float64, category string, stock int) (*domain.Product, error) {
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Stock:       stock,
		CreatedAt:   time.Now().UTC(),
	}

	c.mu.Lock()
	c.byID[product.ID] = product
	c.order = append(c.order, product.ID)
	c.mu.Unlock()

	slog.InfoContext(ctx, "product created", "product_id", product.ID, "name", name)
	return product, nil
}

// Seed inserts a product with a fixed id, used for demo data at startup.
func (c *Catalog) Seed(product *domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[product.ID] = product
	c.order = append(c.order, product.ID)
}

func (c *Catalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *product
	return &cp, nil
}

// List applies the filter in insertion order and slices out the requested page.
func (c *Catalog) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	c.mu.Lock()
	filtered := make([]*domain.Product, 0, len(c.order))
	for _, id := range c.order {
		p := c.byID[id]
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		cp := *p
		filtered = append(filtered, &cp)
	}
	c.mu.Unlock()

	total := len(filtered)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &ListResult{
		Products:   filtered[start:end],
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// DecrementStock reduces a product's stock by quantity. The check and the
// mutation happen under one lock, so stock can never go negative even with
// concurrent orders racing on the same product.
func (c *Catalog) DecrementStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	product, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if product.Stock < quantity {
		return nil, domain.ErrInsufficientStock
	}

	product.Stock -= quantity
	slog.InfoContext(ctx, "stock decremented",
		"product_id", id, "quantity", quantity, "remaining", product.Stock)

	cp := *product
	return &cp, nil
}
