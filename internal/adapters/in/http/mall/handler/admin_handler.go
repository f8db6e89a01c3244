// backend/internal/adapters/in/http/mall/handler/admin_handler.go
package mallHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	usecase "storefront/internal/application/usecase"
	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
)

// AdminHandler: catalog writes, newsletter broadcast and analytics.
// AdminKeyMiddleware が前段にある前提。
//
// Routes:
// - POST /api/admin/categories
// - POST /api/admin/products
// - POST /api/admin/newsletter/send
// - GET  /api/admin/analytics
type AdminHandler struct {
	catalog    *usecase.CatalogUsecase
	newsletter *usecase.NewsletterUsecase
	analytics  *usecase.AnalyticsUsecase
}

func NewAdminHandler(
	catalog *usecase.CatalogUsecase,
	newsletter *usecase.NewsletterUsecase,
	analytics *usecase.AnalyticsUsecase,
) http.Handler {
	return &AdminHandler{
		catalog:    catalog,
		newsletter: newsletter,
		analytics:  analytics,
	}
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	type route struct {
		method string
		ready  bool
		fn     func(http.ResponseWriter, *http.Request) int
	}
	routes := map[string]route{
		"/api/admin/categories":      {http.MethodPost, h.catalog != nil, h.createCategory},
		"/api/admin/products":        {http.MethodPost, h.catalog != nil, h.createProduct},
		"/api/admin/newsletter/send": {http.MethodPost, h.newsletter != nil, h.sendNewsletter},
		"/api/admin/analytics":       {http.MethodGet, h.analytics != nil, h.productAnalytics},
	}

	code := http.StatusNotFound
	rt, ok := routes[path]
	switch {
	case !ok:
		notFound(w)
	case r.Method != rt.method:
		code = http.StatusMethodNotAllowed
		methodNotAllowed(w)
	case !rt.ready:
		code = http.StatusInternalServerError
		writeErr(w, code, "admin handler is not configured")
	default:
		code = rt.fn(w, r)
	}

	log.Printf("[admin_handler] exit method=%s path=%q status=%d elapsed=%s", r.Method, path, code, time.Since(start))
}

func (h *AdminHandler) createCategory(w http.ResponseWriter, r *http.Request) int {
	var req catdom.CreateCategoryInput
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return http.StatusBadRequest
	}
	req.Description = trimPtr(req.Description)
	req.ImageURL = trimPtr(req.ImageURL)

	c, err := h.catalog.CreateCategory(r.Context(), req)
	if err != nil {
		return writeUsecaseErr(w, "admin_handler", err, "Failed to create category")
	}
	writeJSON(w, http.StatusOK, c)
	return http.StatusOK
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) int {
	var req productdom.CreateProductInput
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return http.StatusBadRequest
	}

	p, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		return writeUsecaseErr(w, "admin_handler", err, "Failed to create product")
	}
	writeJSON(w, http.StatusOK, p)
	return http.StatusOK
}

func (h *AdminHandler) sendNewsletter(w http.ResponseWriter, r *http.Request) int {
	var req usecase.SendNewsletterInput
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return http.StatusBadRequest
	}

	res, err := h.newsletter.Send(r.Context(), req)
	if err != nil {
		return writeUsecaseErr(w, "admin_handler", err, "Failed to send newsletter")
	}
	writeJSON(w, http.StatusOK, res)
	return http.StatusOK
}

func (h *AdminHandler) productAnalytics(w http.ResponseWriter, r *http.Request) int {
	v, err := h.analytics.ProductAnalytics(r.Context())
	if err != nil {
		return writeUsecaseErr(w, "admin_handler", err, "Failed to fetch analytics")
	}
	writeJSON(w, http.StatusOK, v)
	return http.StatusOK
}
