// backend/internal/adapters/in/http/middleware/admin_key.go
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// AdminKeyHeader carries the admin API key.
const AdminKeyHeader = "X-API-Key"

// AdminKeyMiddleware guards /api/admin/* with a shared API key.
// Key が空の場合は全リクエストを拒否する（未設定で素通りさせない）。
type AdminKeyMiddleware struct {
	Key string
}

func (m *AdminKeyMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := ""
		if m != nil {
			want = strings.TrimSpace(m.Key)
		}
		if want == "" {
			log.Printf("[admin_key] rejected path=%s reason=admin key not configured", r.URL.Path)
			writeUnauthorized(w)
			return
		}

		got := strings.TrimSpace(r.Header.Get(AdminKeyHeader))
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			log.Printf("[admin_key] rejected path=%s reason=bad key (len=%d)", r.URL.Path, len(got))
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
