// backend/internal/adapters/out/memory/category_repository_mem.go
package memory

import (
	"context"
	"sort"
	"strings"

	catdom "storefront/internal/domain/category"
)

func (s *Store) ListCategories(ctx context.Context) ([]catdom.Category, error) {
	if err := alive(ctx, "ListCategories"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catdom.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, cloneCategory(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetCategoryByID(ctx context.Context, id string) (*catdom.Category, error) {
	if err := alive(ctx, "GetCategoryByID"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	cp := cloneCategory(c)
	return &cp, nil
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*catdom.Category, error) {
	if err := alive(ctx, "GetCategoryBySlug"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categoryBySlugLocked(strings.TrimSpace(slug))
	if !ok {
		return nil, nil
	}
	cp := cloneCategory(c)
	return &cp, nil
}

func (s *Store) CreateCategory(ctx context.Context, in catdom.CreateCategoryInput) (*catdom.Category, error) {
	if err := alive(ctx, "CreateCategory"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := catdom.New(s.id(strings.TrimSpace(in.ID)), in.Name, in.Slug, in.Description, in.ImageURL)
	if err != nil {
		return nil, err
	}
	if _, dup := s.categories[c.ID]; dup {
		return nil, catdom.ErrConflict
	}
	if _, dup := s.categoryBySlugLocked(c.Slug); dup {
		return nil, catdom.ErrConflict
	}

	s.categories[c.ID] = c
	cp := cloneCategory(c)
	return &cp, nil
}

func (s *Store) categoryBySlugLocked(slug string) (catdom.Category, bool) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return catdom.Category{}, false
}

// joinCategoryLocked resolves categoryId; dangling -> nil.
func (s *Store) joinCategoryLocked(id string) *catdom.Category {
	if id == "" {
		return nil
	}
	c, ok := s.categories[id]
	if !ok {
		return nil
	}
	cp := cloneCategory(c)
	return &cp
}
