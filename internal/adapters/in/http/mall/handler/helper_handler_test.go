package mallHandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
	"storefront/internal/domain/common"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", fmt.Errorf("%w: bad", usecase.ErrValidation), http.StatusBadRequest},
		{"insufficient stock", fmt.Errorf("%w: %w", usecase.ErrValidation, usecase.ErrInsufficientStock), http.StatusBadRequest},
		{"not found", usecase.ErrNotFound, http.StatusNotFound},
		{"query not found", mallquery.ErrNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: slug", usecase.ErrConflict), http.StatusConflict},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized},
		{"unavailable", common.Unavailable("op", errors.New("dial tcp")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteUsecaseErr_HidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	code := writeUsecaseErr(rec, "test", common.Unavailable("firestore.ListProducts", errors.New("rpc error: secret host")), "Failed to fetch products")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.JSONEq(t, `{"error":"Failed to fetch products"}`, rec.Body.String())
}

func TestValidationMessage(t *testing.T) {
	err := fmt.Errorf("%w: quantity must be >= 1", usecase.ErrValidation)
	assert.Equal(t, "quantity must be >= 1", validationMessage(err))

	err = fmt.Errorf("%w: %w: product p1", usecase.ErrValidation, usecase.ErrInsufficientStock)
	assert.Equal(t, "insufficient stock", validationMessage(err))
}

func TestParseListOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?category=kitchen&search=%20bottle%20&featured=true&limit=3", nil)
	opts, err := parseListOptions(req)
	require.NoError(t, err)
	assert.Equal(t, "kitchen", opts.CategoryID)
	assert.Equal(t, "bottle", opts.Search)
	require.NotNil(t, opts.Featured)
	assert.True(t, *opts.Featured)
	assert.Equal(t, 3, opts.Limit)

	opts, err = parseListOptions(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.NoError(t, err)
	assert.Nil(t, opts.Featured)
	assert.Zero(t, opts.Limit)

	for _, q := range []string{"featured=yes", "limit=-1", "limit=ten"} {
		_, err := parseListOptions(httptest.NewRequest(http.MethodGet, "/api/products?"+q, nil))
		assert.Error(t, err, q)
	}
}

func TestPathTail(t *testing.T) {
	assert.Equal(t, "abc", pathTail("/api/cart/abc", "/api/cart"))
	assert.Equal(t, "abc", pathTail("/api/cart/abc/", "/api/cart"))
	assert.Equal(t, "", pathTail("/api/cart", "/api/cart"))
	assert.Equal(t, "", pathTail("/api/orders/1", "/api/cart"))
	assert.Equal(t, "a/b", pathTail("/api/cart/a/b", "/api/cart"))
}

func TestMaskID(t *testing.T) {
	assert.Equal(t, "", maskID(" "))
	assert.Equal(t, "***", maskID("abc"))
	assert.Equal(t, "***567890", maskID("1234567890"))
}

func TestCatalogHandler_BackendUnavailable(t *testing.T) {
	st := memory.New()
	h := NewCatalogHandler(usecase.NewCatalogUsecase(st, st), mallquery.NewCatalogQuery(st, st))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch products"}`, rec.Body.String())
}

func TestNilUsecaseHandlers(t *testing.T) {
	for name, h := range map[string]http.Handler{
		"catalog":    NewCatalogHandler(nil, nil),
		"cart":       NewCartHandler(nil, nil),
		"newsletter": NewNewsletterHandler(nil),
		"order":      NewOrderHandler(nil),
		"user":       NewUserHandler(nil),
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, name)
	}
}
