package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/product-service/app"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Catalog) {
	t.Helper()
	catalog := app.NewCatalog()
	srv := httptest.NewServer(NewRouter(NewHandler(catalog)))
	t.Cleanup(srv.Close)
	return srv, catalog
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res.StatusCode, body
}

func TestListQueryParsing(t *testing.T) {
	srv, catalog := newTestServer(t)
	ctx := context.Background()

	_, err := catalog.Create(ctx, "Laptop", "", 999.99, "Electronics", 50)
	require.NoError(t, err)
	_, err = catalog.Create(ctx, "Desk", "", 149.50, "Furniture", 10)
	require.NoError(t, err)

	status, body := getJSON(t, srv.URL+"/products?category=electronics&minPrice=500")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["totalCount"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Laptop", products[0].(map[string]any)["name"])

	status, _ = getJSON(t, srv.URL+"/products?minPrice=abc")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateThenGet(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/products", "application/json",
		strings.NewReader(`{"name":"Desk","description":"Oak","price":149.5,"category":"Furniture","stock":10}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	id := created["id"].(string)
	require.NotEmpty(t, id)

	status, body := getJSON(t, srv.URL+"/products/"+id)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Desk", body["name"])
	assert.Equal(t, 10.0, body["stock"])

	status, _ = getJSON(t, srv.URL+"/products/missing")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/products", "application/json",
		strings.NewReader(`{"name":"","price":1,"stock":1}`))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestUpdateStock(t *testing.T) {
	srv, catalog := newTestServer(t)
	product, err := catalog.Create(context.Background(), "Desk", "", 149.50, "Furniture", 5)
	require.NoError(t, err)

	patch := func(id, body string) (int, map[string]any) {
		req, err := http.NewRequest(http.MethodPatch, srv.URL+"/products/"+id+"/stock", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		var decoded map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
		return res.StatusCode, decoded
	}

	status, body := patch(product.ID, `{"quantity":3}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["stock"])

	status, body = patch(product.ID, `{"quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient_stock", body["error"])

	status, _ = patch("missing", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, status)
}
