// backend/internal/platform/di/mall/register.go
package mall

import (
	"encoding/json"
	"log"
	"net/http"

	mallhttp "storefront/internal/adapters/in/http/mall"
	mallhandler "storefront/internal/adapters/in/http/mall/handler"
	"storefront/internal/adapters/in/http/middleware"
)

// requireUserAuth wraps handler with UserAuthMiddleware (fail-closed).
// If middleware is not initialized, it returns 503 so the misconfiguration is obvious.
func requireUserAuth(mw *middleware.UserAuthMiddleware, h http.Handler, name string) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	if mw == nil || mw.FirebaseAuth == nil {
		log.Printf("[mall.register] WARN: UserAuthMiddleware is not initialized (endpoint=%s). returning 503", name)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "user_auth_not_initialized",
				"name":  name,
			})
		})
	}
	return mw.Handler(h)
}

// Register registers storefront routes onto mux.
// Pure DI: construct handlers and pass into mall router.Register.
// Session / CORS / Recover are applied by the caller around the whole mux.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	userAuthMW := &middleware.UserAuthMiddleware{}
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		userAuthMW.FirebaseAuth = cont.Infra.FirebaseAuth
	}
	adminMW := &middleware.AdminKeyMiddleware{Key: cont.AdminKey}

	userH := mallhandler.NewUserHandler(cont.UserUC)

	mallhttp.Register(mux, mallhttp.Deps{
		Catalog:    mallhandler.NewCatalogHandler(cont.CatalogUC, cont.CatalogQ),
		Cart:       mallhandler.NewCartHandler(cont.CartUC, cont.CartQ),
		Newsletter: mallhandler.NewNewsletterHandler(cont.NewsletterUC),
		Order:      mallhandler.NewOrderHandler(cont.CheckoutUC),
		User:       userH,
		UserMe:     requireUserAuth(userAuthMW, userH, "User(me)"),
		Admin: adminMW.Handler(mallhandler.NewAdminHandler(
			cont.CatalogUC,
			cont.NewsletterUC,
			cont.AnalyticsUC,
		)),
	})
}

// NewHandler builds the full storefront http.Handler:
// CORS -> Recover -> Session -> mux
func NewHandler(cont *Container) http.Handler {
	mux := http.NewServeMux()
	Register(mux, cont)

	secure := false
	origin := ""
	if cont != nil && cont.Infra != nil {
		secure = cont.Infra.Settings.SecureCookies
		origin = cont.Infra.Settings.CORSAllowedOrigin
	}

	var h http.Handler = mux
	h = middleware.Session(secure)(h)
	h = middleware.Recover(h)
	h = middleware.CORS(origin)(h)
	return h
}
