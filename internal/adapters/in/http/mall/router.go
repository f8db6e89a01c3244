// backend/internal/adapters/in/http/mall/router.go
package mall

import (
	"log"
	"net/http"
)

// Deps is the storefront handler set.
// UserMe / Admin は呼び出し側で認証 middleware を巻いた状態で渡す。
type Deps struct {
	Catalog    http.Handler
	Cart       http.Handler
	Newsletter http.Handler
	Order      http.Handler

	User   http.Handler
	UserMe http.Handler // UserAuthMiddleware 済み

	Admin http.Handler // AdminKeyMiddleware 済み
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[mall.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers storefront routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// health (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// catalog
	handleSafe(mux, "/api/products", deps.Catalog, "Catalog")
	handleSafe(mux, "/api/products/", deps.Catalog, "Catalog")
	handleSafe(mux, "/api/categories", deps.Catalog, "Catalog")
	handleSafe(mux, "/api/categories/", deps.Catalog, "Catalog")
	handleSafe(mux, "/api/home", deps.Catalog, "Catalog")

	// cart
	handleSafe(mux, "/api/cart", deps.Cart, "Cart")
	handleSafe(mux, "/api/cart/", deps.Cart, "Cart")

	// newsletter
	handleSafe(mux, "/api/newsletter", deps.Newsletter, "Newsletter")

	// orders
	handleSafe(mux, "/api/orders", deps.Order, "Order")
	handleSafe(mux, "/api/orders/", deps.Order, "Order")

	// users
	handleSafe(mux, "/api/users", deps.User, "User")
	handleSafe(mux, "/api/users/me", deps.UserMe, "User(me)")

	// admin
	handleSafe(mux, "/api/admin/", deps.Admin, "Admin")
}
