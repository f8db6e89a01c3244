// backend/internal/application/usecase/errors.go
package usecase

import (
	"errors"
	"fmt"

	cartdom "storefront/internal/domain/cart"
	catdom "storefront/internal/domain/category"
	"storefront/internal/domain/common"
	productdom "storefront/internal/domain/product"
	userdom "storefront/internal/domain/user"
)

// Error taxonomy shared by every usecase; handlers classify with errors.Is.
var (
	ErrValidation         = errors.New("usecase: validation failed")
	ErrNotFound           = errors.New("usecase: not found")
	ErrConflict           = errors.New("usecase: conflict")
	ErrUnauthorized       = errors.New("usecase: unauthorized")
	ErrInsufficientStock  = errors.New("usecase: insufficient stock")
	ErrBackendUnavailable = common.ErrBackendUnavailable
)

// invalid marks cause as a validation error (keeps cause in the chain).
func invalid(cause error) error {
	if cause == nil {
		return ErrValidation
	}
	return fmt.Errorf("%w: %w", ErrValidation, cause)
}

// invalidf is invalid with a message instead of a sentinel cause.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// classify lifts domain sentinels from the repository layer into the usecase taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrBackendUnavailable):
		return err
	case errors.Is(err, catdom.ErrConflict),
		errors.Is(err, productdom.ErrConflict),
		errors.Is(err, userdom.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, userdom.ErrInvalidEmail),
		errors.Is(err, cartdom.ErrInvalidCartItem),
		errors.Is(err, cartdom.ErrInvalidQuantity):
		return invalid(err)
	case errors.Is(err, productdom.ErrInsufficientStock):
		return fmt.Errorf("%w: %w: %w", ErrValidation, ErrInsufficientStock, err)
	default:
		return err
	}
}
