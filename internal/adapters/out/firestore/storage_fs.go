// backend/internal/adapters/out/firestore/storage_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"time"

	"cloud.google.com/go/firestore"

	"storefront/internal/application/usecase"
	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
	"storefront/internal/infra/fixtures"
)

// Storage bundles every Firestore repository into one usecase.Storage.
// All repositories share the client and the per-op timeout.
type Storage struct {
	*UserRepositoryFS
	*CategoryRepositoryFS
	*ProductRepositoryFS
	*CartRepositoryFS
	*NewsletterRepositoryFS
	*OrderRepositoryFS
}

var _ usecase.Storage = (*Storage)(nil)

// NewStorage wires the repositories. timeout <= 0 keeps DefaultOpTimeout.
func NewStorage(client *firestore.Client, timeout time.Duration) *Storage {
	cats := NewCategoryRepositoryFS(client)
	prods := NewProductRepositoryFS(client, cats)
	s := &Storage{
		UserRepositoryFS:       NewUserRepositoryFS(client),
		CategoryRepositoryFS:   cats,
		ProductRepositoryFS:    prods,
		CartRepositoryFS:       NewCartRepositoryFS(client, prods),
		NewsletterRepositoryFS: NewNewsletterRepositoryFS(client),
		OrderRepositoryFS:      NewOrderRepositoryFS(client, prods),
	}
	if timeout > 0 {
		s.UserRepositoryFS.Timeout = timeout
		s.CategoryRepositoryFS.Timeout = timeout
		s.ProductRepositoryFS.Timeout = timeout
		s.CartRepositoryFS.Timeout = timeout
		s.NewsletterRepositoryFS.Timeout = timeout
		s.OrderRepositoryFS.Timeout = timeout
	}
	return s
}

// SeedResult counts what Seed actually wrote.
type SeedResult struct {
	Categories int
	Products   int
	Skipped    int
}

// Seed writes the fixture catalog. Documents that already exist are skipped,
// so running it twice is harmless.
func (s *Storage) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	for _, in := range fixtures.Categories() {
		_, err := s.CreateCategory(ctx, in)
		switch {
		case err == nil:
			res.Categories++
		case errors.Is(err, catdom.ErrConflict):
			res.Skipped++
		default:
			return res, err
		}
	}

	for _, sp := range fixtures.Products() {
		p, err := productdom.New(sp.Input.ID, sp.Input, sp.CreatedAt)
		if err != nil {
			return res, err
		}
		opCtx, cancel, err := s.ProductRepositoryFS.begin(ctx, "Seed")
		if err != nil {
			return res, err
		}
		_, err = s.ProductRepositoryFS.create(opCtx, p)
		cancel()
		switch {
		case err == nil:
			res.Products++
		case errors.Is(err, productdom.ErrConflict):
			res.Skipped++
		default:
			return res, err
		}
	}

	log.Printf("[firestore] seeded categories=%d products=%d skipped=%d", res.Categories, res.Products, res.Skipped)
	return res, nil
}
