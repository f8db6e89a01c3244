// backend/internal/adapters/out/memory/cart_repository_mem.go
package memory

import (
	"context"
	"fmt"
	"strings"

	cartdom "storefront/internal/domain/cart"
)

// AddToCart merges into the (sessionId, productId) line when present.
func (s *Store) AddToCart(ctx context.Context, in cartdom.AddInput) (*cartdom.CartItem, error) {
	if err := alive(ctx, "AddToCart"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sid := strings.TrimSpace(in.SessionID)
	pid := strings.TrimSpace(in.ProductID)

	for id, it := range s.cartItems {
		if it.SessionID != sid || it.ProductID != pid {
			continue
		}
		if err := it.Merge(in.Quantity); err != nil {
			return nil, err
		}
		s.cartItems[id] = it
		cp := it
		return &cp, nil
	}

	it, err := cartdom.NewCartItem(s.newID(), sid, pid, in.Quantity, s.now())
	if err != nil {
		return nil, err
	}
	s.cartItems[it.ID] = it
	cp := it
	return &cp, nil
}

// UpdateCartItem returns (nil, nil) for an unknown id.
func (s *Store) UpdateCartItem(ctx context.Context, id string, quantity int) (*cartdom.CartItem, error) {
	if err := alive(ctx, "UpdateCartItem"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.cartItems[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	if err := it.SetQuantity(quantity); err != nil {
		return nil, err
	}
	s.cartItems[it.ID] = it
	cp := it
	return &cp, nil
}

func (s *Store) RemoveFromCart(ctx context.Context, id string) error {
	if err := alive(ctx, "RemoveFromCart"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cartItems, strings.TrimSpace(id))
	return nil
}

// GetCartItem returns (nil, nil) when the session has no line for the product.
func (s *Store) GetCartItem(ctx context.Context, sessionID, productID string) (*cartdom.CartItem, error) {
	if err := alive(ctx, "GetCartItem"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sid := strings.TrimSpace(sessionID)
	pid := strings.TrimSpace(productID)
	for _, it := range s.cartItems {
		if it.SessionID == sid && it.ProductID == pid {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

// ConsumeCartItems subtracts the ordered quantities under one write lock.
// Ids that are gone or belong to another session are skipped.
func (s *Store) ConsumeCartItems(ctx context.Context, sessionID string, ordered []cartdom.CartItem) error {
	if err := alive(ctx, "ConsumeCartItems"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sid := strings.TrimSpace(sessionID)
	for _, o := range ordered {
		it, ok := s.cartItems[o.ID]
		if !ok || it.SessionID != sid {
			continue
		}
		if it.Consume(o.Quantity) {
			delete(s.cartItems, it.ID)
			continue
		}
		s.cartItems[it.ID] = it
	}
	return nil
}

// ClearCart removes every item of the session under one write lock.
func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	if err := alive(ctx, "ClearCart"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sid := strings.TrimSpace(sessionID)
	for id, it := range s.cartItems {
		if it.SessionID == sid {
			delete(s.cartItems, id)
		}
	}
	return nil
}

func (s *Store) ListCartItems(ctx context.Context, sessionID string) ([]cartdom.CartItemWithProduct, error) {
	if err := alive(ctx, "ListCartItems"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sid := strings.TrimSpace(sessionID)
	items := make([]cartdom.CartItem, 0)
	for _, it := range s.cartItems {
		if it.SessionID == sid {
			items = append(items, it)
		}
	}
	cartdom.SortItems(items)

	out := make([]cartdom.CartItemWithProduct, 0, len(items))
	for _, it := range items {
		p, ok := s.products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("memory: cart item %s -> product %s: %w", it.ID, it.ProductID, cartdom.ErrProductMissing)
		}
		out = append(out, cartdom.CartItemWithProduct{CartItem: it, Product: p.Clone()})
	}
	return out, nil
}
