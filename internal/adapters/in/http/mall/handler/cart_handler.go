// backend/internal/adapters/in/http/mall/handler/cart_handler.go
package mallHandler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
)

// CartHandler serves the anonymous session cart.
//
// Routes:
// - GET    /api/cart              (cookie session; {sessionId, items, itemCount, total})
// - GET    /api/cart/{sessionId}  (items array)
// - POST   /api/cart              (add / merge; creates the session cookie when missing)
// - PUT    /api/cart/{id}         (replace quantity)
// - DELETE /api/cart/{id}         (remove, idempotent)
// - DELETE /api/cart              (clear cookie session)
type CartHandler struct {
	uc        *usecase.CartUsecase
	cartQuery *mallquery.CartQuery
}

func NewCartHandler(uc *usecase.CartUsecase, cartQuery *mallquery.CartQuery) http.Handler {
	return &CartHandler{uc: uc, cartQuery: cartQuery}
}

type cartAddReq struct {
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type cartUpdateReq struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")
	tail := pathTail(path, "/api/cart")

	log.Printf("[cart_handler] enter method=%s path=%q session=%s", r.Method, path, maskID(middleware.SessionID(r)))

	if h.uc == nil {
		log.Printf("[cart_handler] exit status=500 reason=uc is nil")
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}
	if strings.Contains(tail, "/") {
		notFound(w)
		return
	}

	var code int
	switch {
	case r.Method == http.MethodGet && tail == "":
		code = h.handleGetSession(w, r)
	case r.Method == http.MethodGet:
		code = h.handleList(w, r, tail)
	case r.Method == http.MethodPost && tail == "":
		code = h.handleAdd(w, r)
	case r.Method == http.MethodPut && tail != "":
		code = h.handleUpdate(w, r, tail)
	case r.Method == http.MethodDelete && tail != "":
		code = h.handleRemove(w, r, tail)
	case r.Method == http.MethodDelete:
		code = h.handleClear(w, r)
	default:
		code = http.StatusMethodNotAllowed
		methodNotAllowed(w)
	}

	log.Printf("[cart_handler] exit method=%s path=%q status=%d elapsed=%s", r.Method, path, code, time.Since(start))
}

// -------------------------
// reads
// -------------------------

func (h *CartHandler) handleGetSession(w http.ResponseWriter, r *http.Request) int {
	if h.cartQuery == nil {
		writeErr(w, http.StatusInternalServerError, "cart query is not configured")
		return http.StatusInternalServerError
	}
	v, err := h.cartQuery.GetBySessionID(r.Context(), middleware.SessionID(r))
	if err != nil {
		return writeUsecaseErr(w, "cart_handler", err, "Failed to fetch cart items")
	}
	writeJSON(w, http.StatusOK, v)
	return http.StatusOK
}

func (h *CartHandler) handleList(w http.ResponseWriter, r *http.Request, sessionID string) int {
	items, err := h.uc.List(r.Context(), sessionID)
	if err != nil {
		return writeUsecaseErr(w, "cart_handler", err, "Failed to fetch cart items")
	}
	writeJSON(w, http.StatusOK, items)
	return http.StatusOK
}

// -------------------------
// mutations
// -------------------------

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) int {
	req, err := readCartAddReq(w, r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return http.StatusBadRequest
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = middleware.EnsureSessionID(w, r)
	}

	item, err := h.uc.Add(r.Context(), sid, req.ProductID, qty)
	if err != nil {
		return writeUsecaseErr(w, "cart_handler", err, "Failed to add item to cart")
	}
	writeJSON(w, http.StatusOK, item)
	return http.StatusOK
}

func (h *CartHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) int {
	var req cartUpdateReq
	if err := readJSON(w, r, &req); err != nil || req.Quantity == nil {
		writeErr(w, http.StatusBadRequest, "quantity is required")
		return http.StatusBadRequest
	}

	item, err := h.uc.Update(r.Context(), id, *req.Quantity)
	if err != nil {
		if code := statusFor(err); code == http.StatusNotFound {
			writeErr(w, code, "Cart item not found")
			return code
		}
		return writeUsecaseErr(w, "cart_handler", err, "Failed to update cart item")
	}
	writeJSON(w, http.StatusOK, item)
	return http.StatusOK
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request, id string) int {
	if err := h.uc.Remove(r.Context(), id); err != nil {
		return writeUsecaseErr(w, "cart_handler", err, "Failed to remove cart item")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	return http.StatusOK
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) int {
	if err := h.uc.Clear(r.Context(), middleware.SessionID(r)); err != nil {
		return writeUsecaseErr(w, "cart_handler", err, "Failed to clear cart")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	return http.StatusOK
}

// readCartAddReq accepts JSON and plain HTML form posts (product_id / quantity).
func readCartAddReq(w http.ResponseWriter, r *http.Request) (cartAddReq, error) {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return cartAddReq{}, err
		}
		req := cartAddReq{
			SessionID: r.PostFormValue("session_id"),
			ProductID: firstNonEmpty(r.PostFormValue("product_id"), r.PostFormValue("productId")),
		}
		if v := strings.TrimSpace(r.PostFormValue("quantity")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cartAddReq{}, err
			}
			req.Quantity = &n
		}
		return req, nil
	}

	var req cartAddReq
	if err := readJSON(w, r, &req); err != nil {
		return cartAddReq{}, err
	}
	return req, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
