// backend/internal/adapters/in/http/middleware/session.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the anonymous cart session cookie.
	SessionCookieName = "session_id"
	SessionMaxAge     = 30 * 24 * time.Hour
)

// sessionState is stored in the request context by Session.
// id は EnsureSessionID で後から埋まることがある。
type sessionState struct {
	id     string
	secure bool
}

var ctxKeySession = ctxKey{name: "session"}

// Session reads the session_id cookie into the request context.
// It never creates a session; EnsureSessionID does that on the first cart mutation.
// secure: APP_ENV=production のとき true
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := &sessionState{secure: secure}
			if c, err := r.Cookie(SessionCookieName); err == nil {
				st.id = sanitizeSessionID(c.Value)
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the current session id ("" when the client has none yet).
func SessionID(r *http.Request) string {
	if st, ok := r.Context().Value(ctxKeySession).(*sessionState); ok && st != nil {
		return st.id
	}
	return ""
}

// EnsureSessionID returns the current session id, creating one and setting
// the cookie when the client has none.
func EnsureSessionID(w http.ResponseWriter, r *http.Request) string {
	st, _ := r.Context().Value(ctxKeySession).(*sessionState)
	if st != nil && st.id != "" {
		return st.id
	}

	id := uuid.NewString()
	secure := false
	if st != nil {
		st.id = id
		secure = st.secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// sanitizeSessionID drops values that cannot be a session token.
func sanitizeSessionID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > 128 || strings.ContainsAny(v, "/ \t") {
		return ""
	}
	return v
}
