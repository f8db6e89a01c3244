// backend/internal/adapters/out/memory/product_repository_mem.go
package memory

import (
	"context"
	"sort"
	"strings"

	productdom "storefront/internal/domain/product"
)

// ListProducts applies category -> featured -> search, then limit, over
// products ordered by (createdAt, id).
func (s *Store) ListProducts(ctx context.Context, opts productdom.ListOptions) ([]productdom.ProductWithCategory, error) {
	if err := alive(ctx, "ListProducts"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]productdom.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	filtered := opts.Apply(all)
	out := make([]productdom.ProductWithCategory, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, s.withCategoryLocked(p))
	}
	return out, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*productdom.ProductWithCategory, error) {
	if err := alive(ctx, "GetProductByID"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	pc := s.withCategoryLocked(p)
	return &pc, nil
}

func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*productdom.ProductWithCategory, error) {
	if err := alive(ctx, "GetProductBySlug"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.productBySlugLocked(strings.TrimSpace(slug))
	if !ok {
		return nil, nil
	}
	pc := s.withCategoryLocked(p)
	return &pc, nil
}

func (s *Store) CreateProduct(ctx context.Context, in productdom.CreateProductInput) (*productdom.Product, error) {
	if err := alive(ctx, "CreateProduct"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := productdom.New(s.id(strings.TrimSpace(in.ID)), in, s.now())
	if err != nil {
		return nil, err
	}
	if _, dup := s.products[p.ID]; dup {
		return nil, productdom.ErrConflict
	}
	if _, dup := s.productBySlugLocked(p.Slug); dup {
		return nil, productdom.ErrConflict
	}

	s.products[p.ID] = p
	cp := p.Clone()
	return &cp, nil
}

func (s *Store) productBySlugLocked(slug string) (productdom.Product, bool) {
	for _, p := range s.products {
		if p.Slug == slug {
			return p, true
		}
	}
	return productdom.Product{}, false
}

func (s *Store) withCategoryLocked(p productdom.Product) productdom.ProductWithCategory {
	return productdom.ProductWithCategory{
		Product:  p.Clone(),
		Category: s.joinCategoryLocked(p.CategoryKey()),
	}
}
