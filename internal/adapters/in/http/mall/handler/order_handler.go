// backend/internal/adapters/in/http/mall/handler/order_handler.go
package mallHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
)

// OrderHandler serves checkout of the session cart.
//
// Routes:
// - POST /api/orders       {sessionId?, customerInfo{name, email, phone?, address?}}
// - GET  /api/orders/{id}
type OrderHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewOrderHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

type placeOrderReq struct {
	SessionID    string            `json:"sessionId"`
	CustomerInfo orderdom.Customer `json:"customerInfo"`
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")
	tail := pathTail(path, "/api/orders")

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}

	var code int
	switch {
	case r.Method == http.MethodPost && tail == "":
		code = h.handlePlace(w, r)
	case r.Method == http.MethodGet && tail != "" && !strings.Contains(tail, "/"):
		code = h.handleGet(w, r, tail)
	case tail != "" && strings.Contains(tail, "/"):
		code = http.StatusNotFound
		notFound(w)
	default:
		code = http.StatusMethodNotAllowed
		methodNotAllowed(w)
	}

	log.Printf("[order_handler] exit method=%s path=%q status=%d elapsed=%s", r.Method, path, code, time.Since(start))
}

func (h *OrderHandler) handlePlace(w http.ResponseWriter, r *http.Request) int {
	var req placeOrderReq
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return http.StatusBadRequest
	}

	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = middleware.SessionID(r)
	}

	res, err := h.uc.PlaceOrder(r.Context(), usecase.PlaceOrderInput{
		SessionID: sid,
		Customer:  req.CustomerInfo,
	})
	if err != nil {
		return writeUsecaseErr(w, "order_handler", err, "Failed to process order")
	}
	writeJSON(w, http.StatusOK, res)
	return http.StatusOK
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) int {
	o, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		return writeUsecaseErr(w, "order_handler", err, "Failed to fetch order")
	}
	writeJSON(w, http.StatusOK, o)
	return http.StatusOK
}
