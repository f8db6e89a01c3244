package mall

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/in/http/middleware"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
)

const testAdminKey = "test-admin-key"

func newTestHandler(t *testing.T) (http.Handler, *Container) {
	t.Helper()
	inf, err := shared.NewInfra(context.Background(), &appcfg.Config{
		AppEnv:         "development",
		StorageBackend: appcfg.BackendMemory,
		StoreOpTimeout: 5 * time.Second,
		SeedFixtures:   true,
		AdminAPIKey:    testAdminKey,
	})
	require.NoError(t, err)

	cont, err := NewContainer(context.Background(), inf)
	require.NoError(t, err)
	return NewHandler(cont), cont
}

type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
	headers map[string]string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			c.cookies = []*http.Cookie{ck}
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &client{t: t, h: h}

	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCatalogRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &client{t: t, h: h}

	rec := c.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]map[string]any](t, rec)
	assert.Len(t, products, 4)

	rec = c.do(http.MethodGet, "/api/products?category=kitchen", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = c.do(http.MethodGet, "/api/products?featured=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/products/slug/organic-cotton-tote", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[map[string]any](t, rec)
	assert.Equal(t, "organic-cotton-tote", p["id"])
	assert.Equal(t, "fashion", p["category"].(map[string]any)["slug"])

	rec = c.do(http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 4)

	rec = c.do(http.MethodGet, "/api/categories/kitchen/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Len(t, page["products"], 2)

	rec = c.do(http.MethodGet, "/api/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	home := decode[map[string]any](t, rec)
	assert.Len(t, home["featuredProducts"], 4)

	rec = c.do(http.MethodPost, "/api/products", map[string]any{})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &client{t: t, h: h}

	// empty cart without a session
	rec := c.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[map[string]any](t, rec)
	assert.EqualValues(t, 0, empty["itemCount"])
	assert.Equal(t, "0.00", empty["total"])

	// first add issues the cookie
	rec = c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "bamboo-toothbrush-set", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, c.cookies, 1)
	sid := c.cookies[0].Value
	assert.True(t, c.cookies[0].HttpOnly)

	// merge
	rec = c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "bamboo-toothbrush-set"})
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, item["quantity"])
	assert.Equal(t, sid, item["sessionId"])

	rec = c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "beeswax-food-wraps", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	wrapID := decode[map[string]any](t, rec)["id"].(string)

	rec = c.do(http.MethodPut, "/api/cart/"+wrapID, map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)
	assert.EqualValues(t, 5, cart["itemCount"])
	assert.Equal(t, "118.95", cart["total"]) // 2*24.99 + 3*22.99

	rec = c.do(http.MethodGet, "/api/cart/"+sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	// validation
	rec = c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "bamboo-toothbrush-set", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "bamboo-toothbrush-set", "quantity": 1000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")
	rec = c.do(http.MethodPut, "/api/cart/missing", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// checkout
	rec = c.do(http.MethodPost, "/api/orders", map[string]any{
		"customerInfo": map[string]any{"name": "Ada", "email": "ada@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "118.95", res["total"])
	orderID := res["orderId"].(string)

	rec = c.do(http.MethodGet, "/api/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[map[string]any](t, rec)
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, order["items"], 2)

	// cart cleared and stock decremented
	rec = c.do(http.MethodGet, "/api/cart", nil)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["itemCount"])

	rec = c.do(http.MethodGet, "/api/products/bamboo-toothbrush-set", nil)
	assert.EqualValues(t, 48, decode[map[string]any](t, rec)["stockQuantity"])

	// second checkout on the now empty cart
	rec = c.do(http.MethodPost, "/api/orders", map[string]any{
		"customerInfo": map[string]any{"name": "Ada", "email": "ada@example.com"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRemoveAndClear(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &client{t: t, h: h}

	rec := c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "organic-cotton-tote", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = c.do(http.MethodDelete, "/api/cart/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodDelete, "/api/cart/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "organic-cotton-tote", "quantity": 1})
	c.do(http.MethodPost, "/api/cart", map[string]any{"productId": "beeswax-food-wraps", "quantity": 1})
	rec = c.do(http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/cart", nil)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["itemCount"])
}

func TestCartFormPost(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader("product_id=kitchen-missing&quantity=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader("product_id=organic-cotton-tote&quantity=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"quantity":2`)
}

func TestNewsletterAndUsers(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &client{t: t, h: h}

	rec := c.do(http.MethodPost, "/api/newsletter", map[string]any{"email": "Fan@Example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[map[string]any](t, rec)
	assert.Equal(t, "fan@example.com", first["email"])

	rec = c.do(http.MethodPost, "/api/newsletter", map[string]any{"email": "fan@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first["id"], decode[map[string]any](t, rec)["id"])

	rec = c.do(http.MethodPost, "/api/newsletter", map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/users", map[string]any{"name": "Ada", "email": "ada@example.com", "username": "ada"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPost, "/api/users", map[string]any{"name": "Ada 2", "email": "ADA@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// no Firebase in tests: fail closed
	rec = c.do(http.MethodGet, "/api/users/me", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	anon := &client{t: t, h: h}
	admin := &client{t: t, h: h, headers: map[string]string{middleware.AdminKeyHeader: testAdminKey}}

	rec := anon.do(http.MethodGet, "/api/admin/analytics", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = admin.do(http.MethodPost, "/api/admin/categories", map[string]any{"name": "Outdoor", "slug": "outdoor"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	outdoorID, _ := decode[map[string]any](t, rec)["id"].(string)
	require.NotEmpty(t, outdoorID)
	rec = admin.do(http.MethodPost, "/api/admin/categories", map[string]any{"name": "Outdoor", "slug": "outdoor"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// categoryId is the generated id, not the slug
	rec = admin.do(http.MethodPost, "/api/admin/products", map[string]any{
		"name": "Lantern", "slug": "lantern", "price": "10.00", "categoryId": "outdoor",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = admin.do(http.MethodPost, "/api/admin/products", map[string]any{
		"name": "Solar Lantern", "slug": "solar-lantern", "price": "39.50",
		"categoryId": outdoorID, "stockQuantity": 5,
		"imageUrl": "https://cdn.example.com/lantern.jpg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = admin.do(http.MethodPost, "/api/admin/products", map[string]any{"name": "Bad", "slug": "bad", "price": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = admin.do(http.MethodPost, "/api/admin/newsletter/send", map[string]any{"subject": "Hi", "content": "News"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["subscriberCount"])

	rec = admin.do(http.MethodGet, "/api/admin/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	a := decode[map[string]any](t, rec)
	assert.EqualValues(t, 5, a["totalProducts"])
	assert.Len(t, a["lowInventoryProducts"], 1)

	rec = admin.do(http.MethodGet, "/api/admin/products", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	rec = admin.do(http.MethodGet, "/api/admin/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
