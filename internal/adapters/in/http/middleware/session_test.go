package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ReadsCookie(t *testing.T) {
	var got string
	h := Session(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc-123"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", got)
	assert.Empty(t, rec.Result().Cookies(), "reading never sets a cookie")
}

func TestSession_DropsMalformedCookie(t *testing.T) {
	var got string
	h := Session(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "a/b"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, got)
}

func TestEnsureSessionID_CreatesOnce(t *testing.T) {
	var first, second string
	h := Session(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = EnsureSessionID(w, r)
		second = EnsureSessionID(w, r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart", nil))

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, first, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
}

func TestEnsureSessionID_KeepsExisting(t *testing.T) {
	var got string
	h := Session(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = EnsureSessionID(w, r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "existing", got)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionID_WithoutMiddleware(t *testing.T) {
	assert.Empty(t, SessionID(httptest.NewRequest(http.MethodGet, "/", nil)))
}
