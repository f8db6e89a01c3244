// backend/internal/adapters/in/http/mall/handler/newsletter_handler.go
package mallHandler

import (
	"log"
	"net/http"
	"time"

	usecase "storefront/internal/application/usecase"
)

// NewsletterHandler: POST /api/newsletter {email}
type NewsletterHandler struct {
	uc *usecase.NewsletterUsecase
}

func NewNewsletterHandler(uc *usecase.NewsletterUsecase) http.Handler {
	return &NewsletterHandler{uc: uc}
}

type subscribeReq struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "newsletter handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req subscribeReq
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	code := http.StatusOK
	s, err := h.uc.Subscribe(r.Context(), req.Email)
	if err != nil {
		code = writeUsecaseErr(w, "newsletter_handler", err, "Failed to subscribe to newsletter")
	} else {
		writeJSON(w, http.StatusOK, s)
	}
	log.Printf("[newsletter_handler] exit status=%d elapsed=%s", code, time.Since(start))
}
