// backend/internal/adapters/out/memory/order_repository_mem.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

// PlaceOrder checks every stock change first, then applies all of them and
// stores the order, under one write lock.
func (s *Store) PlaceOrder(ctx context.Context, o orderdom.Order) (*orderdom.Order, error) {
	if err := alive(ctx, "PlaceOrder"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changes := o.StockChanges()

	// 1) validate (no writes yet)
	next := make(map[string]productdom.Product, len(changes))
	for _, ch := range changes {
		p, ok := s.products[ch.ProductID]
		if !ok {
			return nil, fmt.Errorf("memory: order product %s: %w", ch.ProductID, productdom.ErrInsufficientStock)
		}
		if err := p.DecrementStock(ch.Quantity); err != nil {
			return nil, fmt.Errorf("memory: order product %s: %w", ch.ProductID, err)
		}
		next[p.ID] = p
	}

	// 2) apply
	for id, p := range next {
		s.products[id] = p
	}
	o.ID = s.id(strings.TrimSpace(o.ID))
	o.Items = append([]orderdom.Line(nil), o.Items...)
	s.orders[o.ID] = o

	cp := cloneOrder(o)
	return &cp, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*orderdom.Order, error) {
	if err := alive(ctx, "GetOrderByID"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	cp := cloneOrder(o)
	return &cp, nil
}

// ListRecentOrders returns newest first.
func (s *Store) ListRecentOrders(ctx context.Context, limit int) ([]orderdom.Order, error) {
	if err := alive(ctx, "ListRecentOrders"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]orderdom.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneOrder(o orderdom.Order) orderdom.Order {
	o.Items = append([]orderdom.Line(nil), o.Items...)
	o.Customer.Phone = clonePtr(o.Customer.Phone)
	o.Customer.Address = clonePtr(o.Customer.Address)
	return o
}
