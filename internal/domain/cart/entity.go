// backend/internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	productdom "storefront/internal/domain/product"
)

var (
	ErrInvalidCartItem = errors.New("cart: invalid item")
	ErrInvalidQuantity = errors.New("cart: quantity must be >= 1")

	// ErrProductMissing is returned by a cart listing when an item refers to a
	// product that no longer exists. The whole listing fails.
	ErrProductMissing = errors.New("cart: referenced product does not exist")
)

// CartItem represents one line of an anonymous session cart.
// Uniqueness: at most one item per (sessionId, productId).
type CartItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItemWithProduct is the read-time join used for rendering / totals.
type CartItemWithProduct struct {
	CartItem
	Product productdom.Product `json:"product"`
}

// NewCartItem validates and builds a new line.
// id may be empty when the repository assigns it.
func NewCartItem(id, sessionID, productID string, qty int, now time.Time) (CartItem, error) {
	it := CartItem{
		ID:        strings.TrimSpace(id),
		SessionID: strings.TrimSpace(sessionID),
		ProductID: strings.TrimSpace(productID),
		Quantity:  qty,
		CreatedAt: now.UTC(),
	}
	if err := it.Validate(); err != nil {
		return CartItem{}, err
	}
	return it, nil
}

func (it CartItem) Validate() error {
	if it.SessionID == "" || it.ProductID == "" {
		return ErrInvalidCartItem
	}
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// Merge adds qty to the existing line (merge-on-add).
func (it *CartItem) Merge(qty int) error {
	if it == nil {
		return ErrInvalidCartItem
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	it.Quantity += qty
	return nil
}

// SetQuantity replaces the quantity directly.
func (it *CartItem) SetQuantity(qty int) error {
	if it == nil {
		return ErrInvalidCartItem
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	it.Quantity = qty
	return nil
}

// Consume subtracts an ordered quantity from the line.
// It reports true when nothing is left and the line should be deleted.
func (it *CartItem) Consume(ordered int) bool {
	if it == nil || ordered <= 0 {
		return false
	}
	if it.Quantity <= ordered {
		it.Quantity = 0
		return true
	}
	it.Quantity -= ordered
	return false
}

// SortItems orders items by createdAt, then id (stable listing across backends).
func SortItems(items []CartItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Totals is derived from a listing and never persisted.
type Totals struct {
	ItemCount int
	Total     decimal.Decimal
}

// ComputeTotals sums quantities and price*quantity over the joined items.
func ComputeTotals(items []CartItemWithProduct) (Totals, error) {
	t := Totals{Total: decimal.Zero}
	for _, it := range items {
		line, err := productdom.LineTotal(it.Product.Price, it.Quantity)
		if err != nil {
			return Totals{}, err
		}
		t.ItemCount += it.Quantity
		t.Total = t.Total.Add(line)
	}
	return t, nil
}
