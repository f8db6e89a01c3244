// backend/internal/adapters/in/http/mall/handler/catalog_handler.go
package mallHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
)

// CatalogHandler serves products, categories and the home page read-model.
//
// Routes:
// - GET /api/products?category&search&featured&limit
// - GET /api/products/{id}
// - GET /api/products/slug/{slug}
// - GET /api/categories
// - GET /api/categories/{slug}
// - GET /api/categories/{slug}/products
// - GET /api/home
type CatalogHandler struct {
	uc    *usecase.CatalogUsecase
	query *mallquery.CatalogQuery // optional: /api/home, /api/categories/{slug}/products
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, query *mallquery.CatalogQuery) http.Handler {
	return &CatalogHandler{uc: uc, query: query}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.uc == nil {
		log.Printf("[catalog_handler] exit status=500 reason=uc is nil")
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	code := http.StatusOK
	switch {
	case path == "/api/products":
		code = h.listProducts(w, r)
	case strings.HasPrefix(path, "/api/products/slug/"):
		code = h.getProductBySlug(w, r, pathTail(path, "/api/products/slug"))
	case strings.HasPrefix(path, "/api/products/"):
		code = h.getProduct(w, r, pathTail(path, "/api/products"))
	case path == "/api/categories":
		code = h.listCategories(w, r)
	case strings.HasPrefix(path, "/api/categories/") && strings.HasSuffix(path, "/products"):
		slug := strings.TrimSuffix(pathTail(path, "/api/categories"), "/products")
		code = h.categoryPage(w, r, slug)
	case strings.HasPrefix(path, "/api/categories/"):
		code = h.getCategory(w, r, pathTail(path, "/api/categories"))
	case path == "/api/home":
		code = h.home(w, r)
	default:
		code = http.StatusNotFound
		notFound(w)
	}

	log.Printf("[catalog_handler] exit method=%s path=%q status=%d elapsed=%s", r.Method, path, code, time.Since(start))
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) int {
	opts, err := parseListOptions(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return http.StatusBadRequest
	}
	ps, err := h.uc.ListProducts(r.Context(), opts)
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch products")
	}
	writeJSON(w, http.StatusOK, ps)
	return http.StatusOK
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request, id string) int {
	if id == "" || strings.Contains(id, "/") {
		notFound(w)
		return http.StatusNotFound
	}
	p, err := h.uc.GetProductByID(r.Context(), id)
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch product")
	}
	writeJSON(w, http.StatusOK, p)
	return http.StatusOK
}

func (h *CatalogHandler) getProductBySlug(w http.ResponseWriter, r *http.Request, slug string) int {
	if slug == "" || strings.Contains(slug, "/") {
		notFound(w)
		return http.StatusNotFound
	}
	p, err := h.uc.GetProductBySlug(r.Context(), slug)
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch product")
	}
	writeJSON(w, http.StatusOK, p)
	return http.StatusOK
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) int {
	cs, err := h.uc.ListCategories(r.Context())
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch categories")
	}
	writeJSON(w, http.StatusOK, cs)
	return http.StatusOK
}

func (h *CatalogHandler) getCategory(w http.ResponseWriter, r *http.Request, slug string) int {
	if slug == "" || strings.Contains(slug, "/") {
		notFound(w)
		return http.StatusNotFound
	}
	c, err := h.uc.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch category")
	}
	writeJSON(w, http.StatusOK, c)
	return http.StatusOK
}

func (h *CatalogHandler) categoryPage(w http.ResponseWriter, r *http.Request, slug string) int {
	if h.query == nil {
		writeErr(w, http.StatusInternalServerError, "catalog query is not configured")
		return http.StatusInternalServerError
	}
	if slug == "" || strings.Contains(slug, "/") {
		notFound(w)
		return http.StatusNotFound
	}
	v, err := h.query.CategoryPage(r.Context(), slug)
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch category")
	}
	writeJSON(w, http.StatusOK, v)
	return http.StatusOK
}

func (h *CatalogHandler) home(w http.ResponseWriter, r *http.Request) int {
	if h.query == nil {
		writeErr(w, http.StatusInternalServerError, "catalog query is not configured")
		return http.StatusInternalServerError
	}
	v, err := h.query.Home(r.Context())
	if err != nil {
		return writeUsecaseErr(w, "catalog_handler", err, "Failed to fetch home")
	}
	writeJSON(w, http.StatusOK, v)
	return http.StatusOK
}
