// backend/internal/application/query/mall/catalog_query.go
package mall

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	dto "storefront/internal/application/query/mall/dto"
	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
)

// HomeFeaturedLimit is the number of featured products on the home page.
const HomeFeaturedLimit = 4

// ============================================================
// Ports (minimal contracts for this query)
// ============================================================

type CategoryReader interface {
	ListCategories(ctx context.Context) ([]catdom.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*catdom.Category, error)
}

type ProductLister interface {
	ListProducts(ctx context.Context, opts productdom.ListOptions) ([]productdom.ProductWithCategory, error)
}

// ============================================================
// Query
// ============================================================

type CatalogQuery struct {
	Categories CategoryReader
	Products   ProductLister
}

func NewCatalogQuery(categories CategoryReader, products ProductLister) *CatalogQuery {
	return &CatalogQuery{Categories: categories, Products: products}
}

// Home loads featured products and categories in parallel.
func (q *CatalogQuery) Home(ctx context.Context) (dto.HomeDTO, error) {
	if q == nil || q.Categories == nil || q.Products == nil {
		return dto.HomeDTO{}, errors.New("catalog query: repositories are nil")
	}

	featured := true
	var out dto.HomeDTO

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := q.Products.ListProducts(gctx, productdom.ListOptions{
			Featured: &featured,
			Limit:    HomeFeaturedLimit,
		})
		out.FeaturedProducts = ps
		return err
	})
	g.Go(func() error {
		cs, err := q.Categories.ListCategories(gctx)
		out.Categories = cs
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.HomeDTO{}, err
	}

	if out.FeaturedProducts == nil {
		out.FeaturedProducts = []productdom.ProductWithCategory{}
	}
	if out.Categories == nil {
		out.Categories = []catdom.Category{}
	}
	return out, nil
}

// CategoryPage resolves the category by slug and lists its products.
// Unknown slug -> ErrNotFound.
func (q *CatalogQuery) CategoryPage(ctx context.Context, slug string) (dto.CategoryPageDTO, error) {
	if q == nil || q.Categories == nil || q.Products == nil {
		return dto.CategoryPageDTO{}, errors.New("catalog query: repositories are nil")
	}

	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return dto.CategoryPageDTO{}, ErrNotFound
	}

	c, err := q.Categories.GetCategoryBySlug(ctx, s)
	if err != nil {
		return dto.CategoryPageDTO{}, err
	}
	if c == nil {
		return dto.CategoryPageDTO{}, ErrNotFound
	}

	ps, err := q.Products.ListProducts(ctx, productdom.ListOptions{CategoryID: c.ID})
	if err != nil {
		return dto.CategoryPageDTO{}, err
	}
	if ps == nil {
		ps = []productdom.ProductWithCategory{}
	}
	return dto.CategoryPageDTO{Category: *c, Products: ps}, nil
}
