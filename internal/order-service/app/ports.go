package app

import "context"

// UserGateway is the orchestrator's view of the user service.
type UserGateway interface {
	// VerifyUser returns an error when the user does not exist or the
	// service cannot be reached; the orchestrator does not distinguish.
	VerifyUser(ctx context.Context, userID string) error
}

// ProductInfo is the slice of a product record the orchestrator reads.
type ProductInfo struct {
	ID    string
	Name  string
	Price float64
	Stock int
}

// ProductGateway is the orchestrator's view of the product service.
type ProductGateway interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
}
