// backend/internal/domain/cart/repository_port.go
package cart

import "context"

// AddInput is the add-to-cart request after boundary validation.
type AddInput struct {
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Repository is a persistence port for session cart items.
//
// Firestore:
// - collection: cartItems
// - docId: backend-defined (memory: uuid, firestore: name-based uuid of (sessionId, productId))
// - fields: sessionId, productId, quantity, createdAt
//
// Not-found handling policy:
// - GetCartItem / UpdateCartItem return (nil, nil) when absent (no side effect)
// - RemoveFromCart on an unknown id is a no-op
type Repository interface {
	// AddToCart merges into the existing (sessionId, productId) line or creates one.
	AddToCart(ctx context.Context, in AddInput) (*CartItem, error)

	// UpdateCartItem replaces quantity.
	UpdateCartItem(ctx context.Context, id string, quantity int) (*CartItem, error)

	RemoveFromCart(ctx context.Context, id string) error

	// GetCartItem returns the (sessionId, productId) line without joining the product.
	GetCartItem(ctx context.Context, sessionID, productID string) (*CartItem, error)

	// ConsumeCartItems subtracts ordered quantities from the session's lines
	// (matched by id) all-or-nothing. Lines that drop to zero are deleted;
	// lines added or grown after the snapshot keep the difference.
	ConsumeCartItems(ctx context.Context, sessionID string, ordered []CartItem) error

	// ClearCart deletes every item of the session all-or-nothing.
	ClearCart(ctx context.Context, sessionID string) error

	// ListCartItems joins each item with its product.
	// A missing product fails the listing with ErrProductMissing.
	ListCartItems(ctx context.Context, sessionID string) ([]CartItemWithProduct, error)
}
