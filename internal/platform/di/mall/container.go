// backend/internal/platform/di/mall/container.go
package mall

import (
	"context"
	"errors"
	"log"

	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
	shared "storefront/internal/platform/di/shared"
)

// Container is the storefront DI container.
// Pure DI: build deps only. No routing branching, no reflection tricks.
type Container struct {
	Infra *shared.Infra

	// Storage variant (memory | firestore)
	Storage usecase.Storage

	// Usecases
	CatalogUC    *usecase.CatalogUsecase
	CartUC       *usecase.CartUsecase
	NewsletterUC *usecase.NewsletterUsecase
	UserUC       *usecase.UserUsecase
	CheckoutUC   *usecase.CheckoutUsecase
	AnalyticsUC  *usecase.AnalyticsUsecase

	// Queries (read-models)
	CatalogQ *mallquery.CatalogQuery
	CartQ    *mallquery.CartQuery

	// "" => admin endpoints reject everything
	AdminKey string
}

// NewContainer wires every usecase over one Storage.
func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("di.mall: infra is nil")
	}

	st, err := buildStorage(ctx, infra)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Infra:   infra,
		Storage: st,

		CatalogUC:    usecase.NewCatalogUsecase(st, st),
		CartUC:       usecase.NewCartUsecase(st, st),
		NewsletterUC: usecase.NewNewsletterUsecase(st),
		UserUC:       usecase.NewUserUsecase(st, buildIdentityProvider(infra)),
		CheckoutUC:   usecase.NewCheckoutUsecase(st, st),
		AnalyticsUC:  usecase.NewAnalyticsUsecase(st, st),

		CatalogQ: mallquery.NewCatalogQuery(st, st),
		CartQ:    mallquery.NewCartQuery(st),

		AdminKey: resolveAdminKey(ctx, infra),
	}
	if r := buildImageResolver(infra); r != nil {
		c.CatalogUC.WithImageResolver(r)
	}

	log.Printf("[di.mall] container ready backend=%s identity=%t adminKey=%t",
		infra.Settings.StorageBackend, infra.FirebaseAuth != nil, c.AdminKey != "")
	return c, nil
}

// Close: clients belong to Infra; the container owns nothing.
func (c *Container) Close() error {
	return nil
}
