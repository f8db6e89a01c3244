// backend/internal/adapters/in/http/mall/handler/helper_handler.go
package mallHandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

const maxBodyBytes = 1 << 20 // 1MB

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": strings.TrimSpace(msg)})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "not found")
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// writeUsecaseErr maps the usecase error taxonomy to a status code.
// 内部の詳細はログにだけ出し、レスポンスは固定文言 (fallback) にする。
// validation エラーのみ、入力の修正に必要なのでメッセージを返す。
func writeUsecaseErr(w http.ResponseWriter, tag string, err error, fallback string) int {
	code := statusFor(err)
	log.Printf("[%s] error status=%d err=%v", tag, code, err)

	switch code {
	case http.StatusBadRequest:
		writeErr(w, code, validationMessage(err))
	case http.StatusNotFound:
		writeErr(w, code, "not found")
	case http.StatusConflict:
		writeErr(w, code, "already exists")
	case http.StatusUnauthorized:
		writeErr(w, code, "unauthorized")
	default:
		writeErr(w, code, fallback)
	}
	return code
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, usecase.ErrBackendUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, mallquery.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage strips the taxonomy prefix ("usecase: validation failed: ").
func validationMessage(err error) string {
	if errors.Is(err, usecase.ErrInsufficientStock) {
		return "insufficient stock"
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, usecase.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(usecase.ErrValidation.Error())+2:]
	}
	return msg
}

// ============================================================
// request parsing
// ============================================================

// parseListOptions reads category / search / featured / limit.
// featured: "true" -> true, "false" -> false, 省略 -> nil (フィルタなし)
func parseListOptions(r *http.Request) (productdom.ListOptions, error) {
	q := r.URL.Query()
	opts := productdom.ListOptions{
		CategoryID: strings.TrimSpace(q.Get("category")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	if v := strings.TrimSpace(q.Get("featured")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return productdom.ListOptions{}, fmt.Errorf("featured must be true or false")
		}
		opts.Featured = &b
	}

	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return productdom.ListOptions{}, fmt.Errorf("limit must be a non-negative integer")
		}
		opts.Limit = n
	}
	return opts, nil
}

// pathTail returns what follows prefix ("/api/cart/abc" -> "abc").
func pathTail(path, prefix string) string {
	p := strings.TrimRight(path, "/")
	if !strings.HasPrefix(p, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(p, prefix), "/")
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

// maskID: ログに id をそのまま出さない
func maskID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if len(id) <= 6 {
		return "***"
	}
	return "***" + id[len(id)-6:]
}
