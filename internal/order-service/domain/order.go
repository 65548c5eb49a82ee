package domain

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
	StatusFailed    OrderStatus = "failed"
)

type Order struct {
	ID          string
	UserID      string
	Items       []OrderItem
	TotalAmount float64
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time // zero until the first status update
}

// OrderItem is an immutable snapshot taken at order time, so the order's
// historical record is decoupled from later product price or name changes.
type OrderItem struct {
	ProductID   string
	ProductName string
	UnitPrice   float64
	Quantity    int
	Subtotal    float64
}

var (
	ErrNotFound    = errors.New("order not found")
	ErrInvalidUser = errors.New("invalid user")
)

// ProductUnavailableError reports a product that could not be fetched or
// whose stock could not be decremented during order placement.
type ProductUnavailableError struct {
	ProductID string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s not found or unavailable", e.ProductID)
}

// InsufficientStockError reports a product whose available stock does not
// cover the requested quantity.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
