// backend/internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"
)

// Recover turns a handler panic into a 500 JSON body.
// 詳細はログのみ。ヘッダ送信済みならボディは書かない。
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &headerTracker{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			log.Printf("[recover] PANIC method=%s path=%s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())

			if tw.wrote {
				return
			}
			tw.Header().Set("Content-Type", "application/json; charset=utf-8")
			tw.WriteHeader(http.StatusInternalServerError)
			_, _ = tw.Write([]byte(`{"error":"internal server error"}`))
		}()

		next.ServeHTTP(tw, r)
	})
}

type headerTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *headerTracker) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}
