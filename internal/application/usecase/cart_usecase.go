// backend/internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUsecase coordinates session cart operations.
//
// Quantity policy:
// - quantity must be >= 1 on add and update
// - add rejects unknown / out-of-stock products
// - add rejects a merged quantity above stockQuantity
type CartUsecase struct {
	repo     cartdom.Repository
	products productdom.Repository
	clock    Clock
}

func NewCartUsecase(repo cartdom.Repository, products productdom.Repository) *CartUsecase {
	return &CartUsecase{
		repo:     repo,
		products: products,
		clock:    systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, products productdom.Repository, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{repo: repo, products: products, clock: clock}
}

// List returns the session's items joined with products.
// An empty sessionID yields an empty cart without touching storage.
func (uc *CartUsecase) List(ctx context.Context, sessionID string) ([]cartdom.CartItemWithProduct, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return []cartdom.CartItemWithProduct{}, nil
	}
	items, err := uc.repo.ListCartItems(ctx, sid)
	if err != nil {
		return nil, classify(err)
	}
	if items == nil {
		items = []cartdom.CartItemWithProduct{}
	}
	return items, nil
}

// Add merges qty into the (sessionID, productID) line or creates it.
func (uc *CartUsecase) Add(ctx context.Context, sessionID, productID string, qty int) (*cartdom.CartItem, error) {
	sid := strings.TrimSpace(sessionID)
	pid := strings.TrimSpace(productID)
	if _, err := cartdom.NewCartItem("", sid, pid, qty, uc.clock.Now()); err != nil {
		return nil, invalid(err)
	}

	p, err := uc.products.GetProductByID(ctx, pid)
	if err != nil {
		return nil, classify(err)
	}
	if p == nil {
		return nil, invalidf("product %q does not exist", pid)
	}

	existing, err := uc.existingQuantity(ctx, sid, pid)
	if err != nil {
		return nil, err
	}
	if !p.CanFulfil(existing + qty) {
		return nil, classify(fmt.Errorf("product %s: want %d, have %d: %w",
			pid, existing+qty, p.StockQuantity, productdom.ErrInsufficientStock))
	}

	item, err := uc.repo.AddToCart(ctx, cartdom.AddInput{
		SessionID: sid,
		ProductID: pid,
		Quantity:  qty,
	})
	if err != nil {
		return nil, classify(err)
	}
	return item, nil
}

// Update replaces the quantity. Unknown id -> ErrNotFound.
func (uc *CartUsecase) Update(ctx context.Context, itemID string, qty int) (*cartdom.CartItem, error) {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return nil, invalidf("cart item id is required")
	}
	if qty <= 0 {
		return nil, invalid(cartdom.ErrInvalidQuantity)
	}

	item, err := uc.repo.UpdateCartItem(ctx, id, qty)
	if err != nil {
		return nil, classify(err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// Remove is idempotent.
func (uc *CartUsecase) Remove(ctx context.Context, itemID string) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return invalidf("cart item id is required")
	}
	return classify(uc.repo.RemoveFromCart(ctx, id))
}

// Clear deletes every item of the session.
func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil
	}
	return classify(uc.repo.ClearCart(ctx, sid))
}

// existingQuantity reads only the (sid, pid) line, so other lines of the
// session (even ones pointing at deleted products) do not affect the cap.
func (uc *CartUsecase) existingQuantity(ctx context.Context, sid, pid string) (int, error) {
	it, err := uc.repo.GetCartItem(ctx, sid, pid)
	if err != nil {
		return 0, classify(err)
	}
	if it == nil {
		return 0, nil
	}
	return it.Quantity, nil
}
