package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/domain/common"
)

// DefaultOpTimeout is applied to every storage operation unless overridden.
const DefaultOpTimeout = 10 * time.Second

// Collection names
const (
	colUsers          = "users"
	colCategories     = "categories"
	colProducts       = "products"
	colCartItems      = "cartItems"
	colNewsletter     = "newsletter"
	colNewsletterLogs = "newsletterLogs"
	colOrders         = "orders"
)

// base is embedded by every repository: client + per-op timeout.
type base struct {
	Client  *firestore.Client
	Timeout time.Duration
}

// begin checks the client and derives the per-op deadline.
func (b base) begin(ctx context.Context, op string) (context.Context, context.CancelFunc, error) {
	if b.Client == nil {
		return ctx, func() {}, common.Unavailable("firestore."+op, errors.New("firestore client is nil"))
	}
	if b.Timeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	return ctx, cancel, nil
}

// mapErr classifies transport / availability failures as ErrBackendUnavailable.
// Domain sentinels returned from transaction bodies pass through untouched.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.Unavailable("firestore."+op, err)
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded,
		codes.Unavailable,
		codes.Canceled,
		codes.Unauthenticated,
		codes.PermissionDenied,
		codes.ResourceExhausted:
		return common.Unavailable("firestore."+op, err)
	}
	return fmt.Errorf("firestore.%s: %w", op, err)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ------------------------------------------------------------
// small value helpers
// ------------------------------------------------------------

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
