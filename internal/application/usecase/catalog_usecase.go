// backend/internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
)

// ImageURLResolver is an outbound port normalizing product image references
// (gs://bucket/obj, bare object paths) into public URLs.
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, raw string) (string, error)
}

// CatalogUsecase serves categories and products.
type CatalogUsecase struct {
	categories catdom.Repository
	products   productdom.Repository
	images     ImageURLResolver // optional
}

func NewCatalogUsecase(categories catdom.Repository, products productdom.Repository) *CatalogUsecase {
	return &CatalogUsecase{categories: categories, products: products}
}

// WithImageResolver sets the optional resolver used by CreateProduct.
func (uc *CatalogUsecase) WithImageResolver(r ImageURLResolver) *CatalogUsecase {
	uc.images = r
	return uc
}

// ===============================
// Categories
// ===============================

func (uc *CatalogUsecase) ListCategories(ctx context.Context) ([]catdom.Category, error) {
	cs, err := uc.categories.ListCategories(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if cs == nil {
		cs = []catdom.Category{}
	}
	return cs, nil
}

// GetCategoryBySlug returns ErrNotFound when absent.
func (uc *CatalogUsecase) GetCategoryBySlug(ctx context.Context, slug string) (*catdom.Category, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return nil, invalidf("slug is required")
	}
	c, err := uc.categories.GetCategoryBySlug(ctx, s)
	if err != nil {
		return nil, classify(err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (uc *CatalogUsecase) CreateCategory(ctx context.Context, in catdom.CreateCategoryInput) (*catdom.Category, error) {
	// validate before touching storage
	if _, err := catdom.New(in.ID, in.Name, in.Slug, in.Description, in.ImageURL); err != nil {
		return nil, invalid(err)
	}
	c, err := uc.categories.CreateCategory(ctx, in)
	if err != nil {
		return nil, classify(err)
	}
	log.Printf("[catalog] category created id=%s slug=%s", c.ID, c.Slug)
	return c, nil
}

// ===============================
// Products
// ===============================

func (uc *CatalogUsecase) ListProducts(ctx context.Context, opts productdom.ListOptions) ([]productdom.ProductWithCategory, error) {
	ps, err := uc.products.ListProducts(ctx, opts.Normalize())
	if err != nil {
		return nil, classify(err)
	}
	if ps == nil {
		ps = []productdom.ProductWithCategory{}
	}
	return ps, nil
}

func (uc *CatalogUsecase) GetProductByID(ctx context.Context, id string) (*productdom.ProductWithCategory, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, invalidf("id is required")
	}
	p, err := uc.products.GetProductByID(ctx, pid)
	if err != nil {
		return nil, classify(err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (uc *CatalogUsecase) GetProductBySlug(ctx context.Context, slug string) (*productdom.ProductWithCategory, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return nil, invalidf("slug is required")
	}
	p, err := uc.products.GetProductBySlug(ctx, s)
	if err != nil {
		return nil, classify(err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// CreateProduct validates the input, checks categoryId, resolves image URLs and stores the product.
func (uc *CatalogUsecase) CreateProduct(ctx context.Context, in productdom.CreateProductInput) (*productdom.Product, error) {
	if _, err := productdom.New(in.ID, in, timeNowUTC()); err != nil {
		return nil, invalid(err)
	}

	if cid := trimPtr(in.CategoryID); cid != nil {
		c, err := uc.categories.GetCategoryByID(ctx, *cid)
		if err != nil {
			return nil, classify(err)
		}
		if c == nil {
			return nil, invalidf("category %q does not exist", *cid)
		}
	}

	if uc.images != nil {
		if err := uc.resolveImages(ctx, &in); err != nil {
			return nil, err
		}
	}

	p, err := uc.products.CreateProduct(ctx, in)
	if err != nil {
		return nil, classify(err)
	}
	log.Printf("[catalog] product created id=%s slug=%s price=%s stock=%d", p.ID, p.Slug, p.Price, p.StockQuantity)
	return p, nil
}

func (uc *CatalogUsecase) resolveImages(ctx context.Context, in *productdom.CreateProductInput) error {
	if u := trimPtr(in.ImageURL); u != nil {
		resolved, err := uc.images.ResolveImageURL(ctx, *u)
		if err != nil {
			return imageErr("imageUrl", err)
		}
		in.ImageURL = &resolved
	}
	for i, raw := range in.ImageURLs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		resolved, err := uc.images.ResolveImageURL(ctx, raw)
		if err != nil {
			return imageErr(fmt.Sprintf("imageUrls[%d]", i), err)
		}
		in.ImageURLs[i] = resolved
	}
	return nil
}

// imageErr: 到達不能は 500 系のまま、それ以外は入力エラー
func imageErr(field string, err error) error {
	if errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return invalid(fmt.Errorf("%s: %w", field, err))
}
