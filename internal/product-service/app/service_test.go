package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/product-service/domain"
)

func seedCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	ctx := context.Background()

	_, err := c.Create(ctx, "Laptop", "", 999.99, "Electronics", 50)
	require.NoError(t, err)
	_, err = c.Create(ctx, "Smartphone", "", 699.99, "Electronics", 100)
	require.NoError(t, err)
	_, err = c.Create(ctx, "Desk", "", 149.50, "Furniture", 10)
	require.NoError(t, err)
	return c
}

func fp(v float64) *float64 { return &v }

func TestListUnfilteredPreservesInsertionOrder(t *testing.T) {
	c := seedCatalog(t)

	res, err := c.List(context.Background(), ListFilter{})
	require.NoError(t, err)

	require.Len(t, res.Products, 3)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, "Laptop", res.Products[0].Name)
	assert.Equal(t, "Smartphone", res.Products[1].Name)
	assert.Equal(t, "Desk", res.Products[2].Name)
}

func TestListFilters(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"category is case-insensitive", ListFilter{Category: "electronics"}, []string{"Laptop", "Smartphone"}},
		{"min price", ListFilter{MinPrice: fp(700)}, []string{"Laptop"}},
		{"max price", ListFilter{MaxPrice: fp(200)}, []string{"Desk"}},
		{"price band", ListFilter{MinPrice: fp(100), MaxPrice: fp(700)}, []string{"Smartphone", "Desk"}},
		{"no match", ListFilter{Category: "Toys"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.List(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(res.Products))
			for _, p := range res.Products {
				names = append(names, p.Name)
			}
			if tt.want == nil {
				assert.Empty(t, names)
			} else {
				assert.Equal(t, tt.want, names)
			}
		})
	}
}

func TestListPagination(t *testing.T) {
	c := seedCatalog(t)

	res, err := c.List(context.Background(), ListFilter{Page: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, "Desk", res.Products[0].Name)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.TotalPages)
}

func TestListPageBeyondEnd(t *testing.T) {
	c := seedCatalog(t)

	res, err := c.List(context.Background(), ListFilter{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.Equal(t, 3, res.TotalCount)
}

func TestGetReturnsCopy(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()

	res, err := c.List(ctx, ListFilter{Category: "Furniture"})
	require.NoError(t, err)
	id := res.Products[0].ID

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	got.Stock = -999

	again, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Stock, "mutating a returned product must not touch the store")
}

func TestGetUnknownProduct(t *testing.T) {
	c := NewCatalog()
	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecrementStock(t *testing.T) {
	c := NewCatalog()
	ctx := context.Background()
	p, err := c.Create(ctx, "Desk", "", 149.50, "Furniture", 10)
	require.NoError(t, err)

	updated, err := c.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
}

func TestDecrementStockInsufficientLeavesStockUntouched(t *testing.T) {
	c := NewCatalog()
	ctx := context.Background()
	p, err := c.Create(ctx, "Desk", "", 149.50, "Furniture", 2)
	require.NoError(t, err)

	_, err = c.DecrementStock(ctx, p.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestDecrementStockRejectsNonPositiveQuantity(t *testing.T) {
	c := NewCatalog()
	ctx := context.Background()
	p, err := c.Create(ctx, "Desk", "", 149.50, "Furniture", 2)
	require.NoError(t, err)

	_, err = c.DecrementStock(ctx, p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = c.DecrementStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	c := NewCatalog()
	_, err := c.DecrementStock(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
