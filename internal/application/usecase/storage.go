// backend/internal/application/usecase/storage.go
package usecase

import (
	cartdom "storefront/internal/domain/cart"
	catdom "storefront/internal/domain/category"
	newsletterdom "storefront/internal/domain/newsletter"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
	userdom "storefront/internal/domain/user"
)

// Storage is the whole persistence contract.
// Exactly two variants implement it: adapters/out/memory and adapters/out/firestore.
// Callers depend on this interface (or on the per-domain ports), never on a backend.
type Storage interface {
	userdom.Repository
	catdom.Repository
	productdom.Repository
	cartdom.Repository
	newsletterdom.Repository
	orderdom.Repository
}
