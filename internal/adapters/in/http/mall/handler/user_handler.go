// backend/internal/adapters/in/http/mall/handler/user_handler.go
package mallHandler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
)

// UserHandler
//
// Routes:
// - POST /api/users     (register; public)
// - GET  /api/users/me  (requires UserAuthMiddleware in front)
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) http.Handler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "user handler is not configured")
		return
	}

	var code int
	switch {
	case path == "/api/users" && r.Method == http.MethodPost:
		code = h.handleRegister(w, r)
	case path == "/api/users/me" && r.Method == http.MethodGet:
		code = h.handleMe(w, r)
	case path == "/api/users" || path == "/api/users/me":
		code = http.StatusMethodNotAllowed
		methodNotAllowed(w)
	default:
		code = http.StatusNotFound
		notFound(w)
	}

	log.Printf("[user_handler] exit method=%s path=%q status=%d elapsed=%s", r.Method, path, code, time.Since(start))
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) int {
	var req usecase.RegisterUserInput
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return http.StatusBadRequest
	}
	u, err := h.uc.Register(r.Context(), req)
	if err != nil {
		return writeUsecaseErr(w, "user_handler", err, "Failed to create user")
	}
	writeJSON(w, http.StatusOK, u)
	return http.StatusOK
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) int {
	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return http.StatusUnauthorized
	}
	log.Printf("[user_handler] GET me uid=%s", maskID(uid))

	u, err := h.uc.GetByID(r.Context(), uid)
	if err != nil {
		return writeUsecaseErr(w, "user_handler", err, "Failed to fetch user")
	}
	writeJSON(w, http.StatusOK, u)
	return http.StatusOK
}
