package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct {
	tokens map[string]*fbauth.Token
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if t, ok := f.tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("invalid token")
}

func TestUserAuthMiddleware(t *testing.T) {
	mw := &UserAuthMiddleware{FirebaseAuth: fakeVerifier{tokens: map[string]*fbauth.Token{
		"good":    {UID: "uid-1", Claims: map[string]any{"email": "ada@example.com"}},
		"noemail": {UID: "uid-2"},
		"blank":   {UID: "  "},
	}}}

	var gotUID, gotEmail string
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, gotEmail, _ = CurrentUserUIDAndEmail(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantUID   string
		wantEmail string
	}{
		{"valid", "Bearer good", http.StatusOK, "uid-1", "ada@example.com"},
		{"no email claim", "Bearer noemail", http.StatusOK, "uid-2", ""},
		{"blank uid", "Bearer blank", http.StatusUnauthorized, "", ""},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, "", ""},
		{"no bearer", "Basic good", http.StatusUnauthorized, "", ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, "", ""},
		{"no header", "", http.StatusUnauthorized, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUID, gotEmail = "", ""
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUID, gotUID)
			assert.Equal(t, tt.wantEmail, gotEmail)
		})
	}
}

func TestUserAuthMiddleware_NotInitialized(t *testing.T) {
	h := (&UserAuthMiddleware{}).Handler(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithUserUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := CurrentUserUID(req)
	assert.False(t, ok)

	req = req.WithContext(WithUserUID(req.Context(), " uid-9 "))
	uid, ok := CurrentUserUID(req)
	assert.True(t, ok)
	assert.Equal(t, "uid-9", uid)
}
