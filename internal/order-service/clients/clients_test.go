package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserClientVerifyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile/u1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"u1","email":"jane@example.com"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL, srv.Client())
	ctx := context.Background()

	assert.NoError(t, c.VerifyUser(ctx, "u1"))
	assert.Error(t, c.VerifyUser(ctx, "ghost"))
}

func TestUserClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewUserClient(url, nil)
	assert.Error(t, c.VerifyUser(context.Background(), "u1"))
}

func TestProductClientGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"p1","name":"Widget","description":"x","price":5.5,"category":"Tools","stock":7}`)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, srv.Client())
	p, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 5.5, p.Price)
	assert.Equal(t, 7, p.Stock)
}

func TestProductClientGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewProductClient(srv.URL, srv.Client()).GetProduct(context.Background(), "nope")
	assert.Error(t, err)
}

func TestProductClientDecrementStock(t *testing.T) {
	var gotBody map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/products/p1/stock", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"p1","stock":4}`)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, srv.Client())
	require.NoError(t, c.DecrementStock(context.Background(), "p1", 3))
	assert.Equal(t, map[string]int{"quantity": 3}, gotBody)
}

func TestProductClientDecrementStockRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewProductClient(srv.URL, srv.Client()).DecrementStock(context.Background(), "p1", 3)
	assert.Error(t, err)
}
