// backend\internal\application\query\mall\cart_query.go
package mall

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	cartdto "storefront/internal/application/query/mall/dto"
	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

// cartItemsReader is the minimal port this query needs (cart.Repository satisfies it).
type cartItemsReader interface {
	ListCartItems(ctx context.Context, sessionID string) ([]cartdom.CartItemWithProduct, error)
}

// CartQuery resolves a session cart into items + item count + total.
type CartQuery struct {
	Items cartItemsReader
}

func NewCartQuery(items cartItemsReader) *CartQuery {
	return &CartQuery{Items: items}
}

// GetBySessionID returns an empty cart (not an error) for an empty sessionID.
func (q *CartQuery) GetBySessionID(ctx context.Context, sessionID string) (cartdto.CartDTO, error) {
	if q == nil || q.Items == nil {
		return cartdto.CartDTO{}, errors.New("cart query: repository is nil")
	}

	sid := strings.TrimSpace(sessionID)
	out := cartdto.CartDTO{
		SessionID: sid,
		Items:     []cartdom.CartItemWithProduct{},
		Total:     productdom.FormatMoney(decimal.Zero),
	}
	if sid == "" {
		return out, nil
	}

	items, err := q.Items.ListCartItems(ctx, sid)
	if err != nil {
		return cartdto.CartDTO{}, err
	}
	if len(items) == 0 {
		return out, nil
	}

	totals, err := cartdom.ComputeTotals(items)
	if err != nil {
		return cartdto.CartDTO{}, fmt.Errorf("cart query: totals: %w", err)
	}

	out.Items = items
	out.ItemCount = totals.ItemCount
	out.Total = productdom.FormatMoney(totals.Total)
	return out, nil
}
