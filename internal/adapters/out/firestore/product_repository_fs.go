// backend/internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"

	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
)

// ProductRepositoryFS is a Firestore-based implementation of product.Repository.
//
// - collection: products
// - fields: name, slug, description, shortDescription, price, originalPrice,
//   categoryId, imageUrl, imageUrls, inStock, stockQuantity, rating,
//   reviewCount, features, isFeatured, createdAt
//
// Query plan for ListProducts:
// - categoryId / isFeatured are equality filters in the query
// - search is a substring match, applied in memory
// - ordering is (createdAt, id); limit is pushed down only when no filter
//   and no search is present (avoids composite indexes)
type ProductRepositoryFS struct {
	base
	Categories *CategoryRepositoryFS
}

func NewProductRepositoryFS(client *firestore.Client, categories *CategoryRepositoryFS) *ProductRepositoryFS {
	if categories == nil {
		categories = NewCategoryRepositoryFS(client)
	}
	return &ProductRepositoryFS{
		base:       base{Client: client, Timeout: DefaultOpTimeout},
		Categories: categories,
	}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(colProducts)
}

// ============================================================
// product.Repository
// ============================================================

func (r *ProductRepositoryFS) ListProducts(ctx context.Context, opts productdom.ListOptions) ([]productdom.ProductWithCategory, error) {
	ctx, cancel, err := r.begin(ctx, "ListProducts")
	if err != nil {
		return nil, err
	}
	defer cancel()

	opts = opts.Normalize()

	var products []productdom.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = r.queryProducts(gctx, opts)
		return err
	})

	// categories are few; load them alongside the product query
	var cats map[string]catdom.Category
	g.Go(func() error {
		all, err := r.Categories.listAll(gctx)
		if err != nil {
			return err
		}
		cats = make(map[string]catdom.Category, len(all))
		for _, c := range all {
			cats[c.ID] = c
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, mapErr("ListProducts", err)
	}

	filtered := opts.Apply(products)
	out := make([]productdom.ProductWithCategory, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, productdom.ProductWithCategory{
			Product:  p,
			Category: lookupCategory(cats, p.CategoryKey()),
		})
	}
	return out, nil
}

func (r *ProductRepositoryFS) queryProducts(ctx context.Context, opts productdom.ListOptions) ([]productdom.Product, error) {
	q := r.col().Query
	pushDown := true
	if opts.CategoryID != "" {
		q = q.Where("categoryId", "==", opts.CategoryID)
		pushDown = false
	}
	if opts.Featured != nil {
		q = q.Where("isFeatured", "==", *opts.Featured)
		pushDown = false
	}
	if opts.Search != "" {
		pushDown = false
	}
	if pushDown {
		q = q.OrderBy("createdAt", firestore.Asc)
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit)
		}
	}

	it := q.Documents(ctx)
	defer it.Stop()

	out := []productdom.Product{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := docToProduct(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

// GetProductByID returns (nil, nil) if not found.
func (r *ProductRepositoryFS) GetProductByID(ctx context.Context, id string) (*productdom.ProductWithCategory, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetProductByID")
	if err != nil {
		return nil, err
	}
	defer cancel()

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapErr("GetProductByID", err)
	}
	p, err := docToProduct(snap)
	if err != nil {
		return nil, mapErr("GetProductByID", err)
	}
	return r.withCategory(ctx, p, "GetProductByID")
}

// GetProductBySlug returns (nil, nil) if not found.
func (r *ProductRepositoryFS) GetProductBySlug(ctx context.Context, slug string) (*productdom.ProductWithCategory, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetProductBySlug")
	if err != nil {
		return nil, err
	}
	defer cancel()

	it := r.col().Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr("GetProductBySlug", err)
	}
	p, err := docToProduct(snap)
	if err != nil {
		return nil, mapErr("GetProductBySlug", err)
	}
	return r.withCategory(ctx, p, "GetProductBySlug")
}

// CreateProduct checks slug / id uniqueness and creates the doc in one transaction.
func (r *ProductRepositoryFS) CreateProduct(ctx context.Context, in productdom.CreateProductInput) (*productdom.Product, error) {
	ctx, cancel, err := r.begin(ctx, "CreateProduct")
	if err != nil {
		return nil, err
	}
	defer cancel()

	p, err := productdom.New(in.ID, in, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return r.create(ctx, p)
}

// create stores an already validated product (seed uses it with fixed createdAt).
func (r *ProductRepositoryFS) create(ctx context.Context, p productdom.Product) (*productdom.Product, error) {
	ref := r.col().NewDoc()
	if p.ID != "" {
		ref = r.col().Doc(p.ID)
	}
	p.ID = ref.ID

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		dup, err := tx.Documents(r.col().Where("slug", "==", p.Slug).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(dup) > 0 {
			return productdom.ErrConflict
		}
		if _, err := tx.Get(ref); err == nil {
			return productdom.ErrConflict
		} else if !isNotFound(err) {
			return err
		}
		return tx.Create(ref, productDocFromDomain(p))
	})
	if err != nil {
		if errors.Is(err, productdom.ErrConflict) {
			return nil, err
		}
		return nil, mapErr("CreateProduct", err)
	}
	cp := p.Clone()
	return &cp, nil
}

func (r *ProductRepositoryFS) withCategory(ctx context.Context, p productdom.Product, op string) (*productdom.ProductWithCategory, error) {
	out := &productdom.ProductWithCategory{Product: p}
	cid := p.CategoryKey()
	if cid == "" {
		return out, nil
	}
	cats, err := r.Categories.getMany(ctx, []string{cid})
	if err != nil {
		return nil, mapErr(op, err)
	}
	out.Category = lookupCategory(cats, cid)
	return out, nil
}

// dangling categoryId -> nil join
func lookupCategory(m map[string]catdom.Category, id string) *catdom.Category {
	c, ok := m[id]
	if !ok || id == "" {
		return nil
	}
	return &c
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type productDoc struct {
	Name             string    `firestore:"name"`
	Slug             string    `firestore:"slug"`
	Description      *string   `firestore:"description"`
	ShortDescription *string   `firestore:"shortDescription"`
	Price            string    `firestore:"price"`
	OriginalPrice    *string   `firestore:"originalPrice"`
	CategoryID       *string   `firestore:"categoryId"`
	ImageURL         *string   `firestore:"imageUrl"`
	ImageURLs        []string  `firestore:"imageUrls"`
	InStock          bool      `firestore:"inStock"`
	StockQuantity    int       `firestore:"stockQuantity"`
	Rating           *string   `firestore:"rating"`
	ReviewCount      int       `firestore:"reviewCount"`
	Features         []string  `firestore:"features"`
	IsFeatured       bool      `firestore:"isFeatured"`
	CreatedAt        time.Time `firestore:"createdAt"`
}

func productDocFromDomain(p productdom.Product) productDoc {
	return productDoc{
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		OriginalPrice:    p.OriginalPrice,
		CategoryID:       p.CategoryID,
		ImageURL:         p.ImageURL,
		ImageURLs:        p.ImageURLs,
		InStock:          p.InStock,
		StockQuantity:    p.StockQuantity,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		Features:         p.Features,
		IsFeatured:       p.IsFeatured,
		CreatedAt:        p.CreatedAt.UTC(),
	}
}

func docToProduct(snap *firestore.DocumentSnapshot) (productdom.Product, error) {
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return productdom.Product{}, err
	}
	return productdom.Product{
		ID:               snap.Ref.ID,
		Name:             d.Name,
		Slug:             d.Slug,
		Description:      trimPtr(d.Description),
		ShortDescription: trimPtr(d.ShortDescription),
		Price:            d.Price,
		OriginalPrice:    trimPtr(d.OriginalPrice),
		CategoryID:       trimPtr(d.CategoryID),
		ImageURL:         trimPtr(d.ImageURL),
		ImageURLs:        d.ImageURLs,
		InStock:          d.InStock,
		StockQuantity:    d.StockQuantity,
		Rating:           trimPtr(d.Rating),
		ReviewCount:      d.ReviewCount,
		Features:         d.Features,
		IsFeatured:       d.IsFeatured,
		CreatedAt:        d.CreatedAt.UTC(),
	}, nil
}
