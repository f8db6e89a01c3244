// backend\internal\application\query\mall\dto\cart_dto.go
package dto

import cartdom "storefront/internal/domain/cart"

// CartDTO is the response shape for the cart screen.
// ItemCount / Total are derived at read time and never stored.
type CartDTO struct {
	SessionID string                        `json:"sessionId"`
	Items     []cartdom.CartItemWithProduct `json:"items"`
	ItemCount int                           `json:"itemCount"`
	Total     string                        `json:"total"` // decimal, 2 digits
}
