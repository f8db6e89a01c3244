// backend/internal/domain/order/repository_port.go
package order

import "context"

// Repository
//
// PlaceOrder is all-or-nothing: it stores the order and decrements
// stockQuantity for every line, or does neither. When any line exceeds the
// stock on hand it fails with product.ErrInsufficientStock.
type Repository interface {
	PlaceOrder(ctx context.Context, o Order) (*Order, error)

	// GetOrderByID returns (nil, nil) when absent.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// ListRecentOrders returns the newest orders first.
	ListRecentOrders(ctx context.Context, limit int) ([]Order, error)
}
