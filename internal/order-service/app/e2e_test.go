package app_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/shopmesh/shopmesh/internal/order-service/app"
	"github.com/shopmesh/shopmesh/internal/order-service/clients"
	"github.com/shopmesh/shopmesh/internal/order-service/domain"
	productapp "github.com/shopmesh/shopmesh/internal/product-service/app"
	producthttpx "github.com/shopmesh/shopmesh/internal/product-service/httpx"
	userapp "github.com/shopmesh/shopmesh/internal/user-service/app"
	userhttpx "github.com/shopmesh/shopmesh/internal/user-service/httpx"
)

// Spins up real user and product services over HTTP and runs the full order
// placement lifecycle against them.
func TestOrderLifecycleAcrossServices(t *testing.T) {
	ctx := context.Background()

	userSvc := userapp.NewService([]byte("e2e-secret"))
	user, err := userSvc.Register(ctx, "jane@example.com", "pw", "Jane", "Roe")
	require.NoError(t, err)
	userSrv := httptest.NewServer(userhttpx.NewRouter(userhttpx.NewHandler(userSvc)))
	defer userSrv.Close()

	catalog := productapp.NewCatalog()
	product, err := catalog.Create(ctx, "Widget", "A widget", 5.00, "Tools", 10)
	require.NoError(t, err)
	productSrv := httptest.NewServer(producthttpx.NewRouter(producthttpx.NewHandler(catalog)))
	defer productSrv.Close()

	orders := orderapp.NewService(
		clients.NewUserClient(userSrv.URL, nil),
		clients.NewProductClient(productSrv.URL, nil),
		orderapp.NewStore(),
		25*time.Millisecond,
	)
	defer orders.Shutdown()

	order, err := orders.CreateOrder(ctx, user.ID, []orderapp.OrderRequestItem{
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 15.00, order.TotalAmount)
	assert.Equal(t, domain.StatusPending, order.Status)

	got, err := catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock, "the real product service must have applied the decrement")

	require.Eventually(t, func() bool {
		o, err := orders.GetOrder(ctx, order.ID)
		return err == nil && o.Status == domain.StatusConfirmed
	}, time.Second, 5*time.Millisecond, "order must confirm after the settlement delay")
}

func TestOrderAcrossServicesInsufficientStock(t *testing.T) {
	ctx := context.Background()

	userSvc := userapp.NewService([]byte("e2e-secret"))
	user, err := userSvc.Register(ctx, "jane@example.com", "pw", "Jane", "Roe")
	require.NoError(t, err)
	userSrv := httptest.NewServer(userhttpx.NewRouter(userhttpx.NewHandler(userSvc)))
	defer userSrv.Close()

	catalog := productapp.NewCatalog()
	product, err := catalog.Create(ctx, "Widget", "", 5.00, "Tools", 2)
	require.NoError(t, err)
	productSrv := httptest.NewServer(producthttpx.NewRouter(producthttpx.NewHandler(catalog)))
	defer productSrv.Close()

	orders := orderapp.NewService(
		clients.NewUserClient(userSrv.URL, nil),
		clients.NewProductClient(productSrv.URL, nil),
		orderapp.NewStore(),
		time.Hour,
	)
	defer orders.Shutdown()

	_, err = orders.CreateOrder(ctx, user.ID, []orderapp.OrderRequestItem{
		{ProductID: product.ID, Quantity: 3},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	got, err := catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock, "stock must be untouched when the check fails")
}
