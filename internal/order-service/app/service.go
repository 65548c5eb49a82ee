// Package app implements the order orchestrator: the multi-step workflow
// that validates the user, reserves stock product by product, snapshots the
// priced items, persists the order, and schedules its deferred confirmation.
//
// The workflow is saga-style: each step is a synchronous remote call and
// there is no atomic commit across services. A failure aborts the remaining
// steps, and stock already decremented for earlier items is NOT released —
// best-effort semantics, kept deliberately (see DESIGN.md).
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/order-service/domain"
	"github.com/shopmesh/shopmesh/internal/order-service/settlement"
)

const DefaultConfirmDelay = 2 * time.Second

// OrderRequestItem is one (product, quantity) pair of a create request.
type OrderRequestItem struct {
	ProductID string
	Quantity  int
}

type Service struct {
	users        UserGateway
	products     ProductGateway
	store        *Store
	scheduler    *settlement.Scheduler
	confirmDelay time.Duration
}

func NewService(users UserGateway, products ProductGateway, store *Store, confirmDelay time.Duration) *Service {
	if confirmDelay <= 0 {
		confirmDelay = DefaultConfirmDelay
	}
	s := &Service{
		users:        users,
		products:     products,
		store:        store,
		confirmDelay: confirmDelay,
	}
	s.scheduler = settlement.NewScheduler(s.confirmOrder)
	return s
}

// CreateOrder runs the placement workflow and returns the persisted order in
// status pending. The confirmation transition happens out of band and is not
// awaited.
//
// Items are processed strictly in request order: a later item's stock check
// must observe the decrements of earlier items when they alias the same
// product.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []OrderRequestItem) (*domain.Order, error) {
	if err := s.users.VerifyUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidUser, userID)
	}

	var totalAmount float64
	orderItems := make([]domain.OrderItem, 0, len(items))

	for i, item := range items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			s.logAborted(ctx, userID, i, item.ProductID)
			return nil, &domain.ProductUnavailableError{ProductID: item.ProductID}
		}

		if product.Stock < item.Quantity {
			s.logAborted(ctx, userID, i, item.ProductID)
			return nil, &domain.InsufficientStockError{ProductID: item.ProductID}
		}

		subtotal := product.Price * float64(item.Quantity)
		totalAmount += subtotal
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal,
		})

		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logAborted(ctx, userID, i, item.ProductID)
			return nil, &domain.ProductUnavailableError{ProductID: item.ProductID}
		}
	}

	order := &domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Items:       orderItems,
		TotalAmount: totalAmount,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.store.Insert(order)
	s.scheduler.Schedule(order.ID, s.confirmDelay)

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID, "user_id", userID, "total", totalAmount, "items", len(orderItems))

	return order, nil
}

// logAborted records a mid-workflow failure. Stock decremented for the first
// i items stands; there is no compensation.
func (s *Service) logAborted(ctx context.Context, userID string, i int, productID string) {
	if i > 0 {
		slog.WarnContext(ctx, "order aborted after partial stock reservation",
			"user_id", userID, "failed_product_id", productID, "items_reserved", i)
		return
	}
	slog.InfoContext(ctx, "order aborted", "user_id", userID, "failed_product_id", productID)
}

// confirmOrder is the deferred settlement transition. Best-effort: skipped
// without error when the order is gone or already off pending.
func (s *Service) confirmOrder(orderID string) {
	if s.store.ConfirmIfPending(orderID) {
		slog.Info("order confirmed", "order_id", orderID)
		return
	}
	slog.Info("skipping confirmation, order missing or already transitioned", "order_id", orderID)
}

// GetOrder returns the order by id.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.Get(id)
}

// ListUserOrders returns the user's orders in creation order.
func (s *Service) ListUserOrders(ctx context.Context, userID string) []*domain.Order {
	return s.store.ListByUser(userID)
}

// UpdateStatus applies an explicit status update. Any value is accepted;
// validation of the transition is deliberately absent.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.store.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	return order, nil
}

// Shutdown cancels pending confirmation timers.
func (s *Service) Shutdown() {
	s.scheduler.Stop()
}
