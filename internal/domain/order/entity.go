// backend/internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	productdom "storefront/internal/domain/product"
)

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// Customer is the contact snapshot captured at checkout.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Line is stored inside Order.Items.
// UnitPrice / Subtotal は注文時点の価格スナップショット（decimal 文字列）。
type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type Status string

const (
	StatusPending Status = "pending"
)

// ========================================
// Entity
// ========================================

type Order struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Customer  Customer  `json:"customerInfo"`
	Items     []Line    `json:"items"`
	Total     string    `json:"total"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidSessionID = errors.New("order: invalid sessionId")
	ErrInvalidCustomer  = errors.New("order: invalid customerInfo")
	ErrInvalidItems     = errors.New("order: invalid items")
	ErrEmptyCart        = errors.New("order: cart is empty")
)

// ========================================
// Constructors
// ========================================

// NewLine snapshots the product price and computes the subtotal.
func NewLine(p productdom.Product, qty int) (Line, error) {
	if strings.TrimSpace(p.ID) == "" || qty <= 0 {
		return Line{}, ErrInvalidItems
	}
	sub, err := productdom.LineTotal(p.Price, qty)
	if err != nil {
		return Line{}, ErrInvalidItems
	}
	return Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		Subtotal:  productdom.FormatMoney(sub),
	}, nil
}

// New builds a pending order. Total is the decimal sum of line subtotals.
func New(id, sessionID string, c Customer, lines []Line, now time.Time) (Order, error) {
	o := Order{
		ID:        strings.TrimSpace(id),
		SessionID: strings.TrimSpace(sessionID),
		Customer:  normalizeCustomer(c),
		Items:     append([]Line(nil), lines...),
		Status:    StatusPending,
		CreatedAt: now.UTC(),
	}
	if o.SessionID == "" {
		return Order{}, ErrInvalidSessionID
	}
	if len(o.Items) == 0 {
		return Order{}, ErrEmptyCart
	}
	if o.Customer.Name == "" || o.Customer.Email == "" {
		return Order{}, ErrInvalidCustomer
	}

	total := decimal.Zero
	for _, l := range o.Items {
		d, err := productdom.ParseMoney(l.Subtotal)
		if err != nil || l.Quantity <= 0 || l.ProductID == "" {
			return Order{}, ErrInvalidItems
		}
		total = total.Add(d)
	}
	o.Total = productdom.FormatMoney(total)
	return o, nil
}

// StockChanges aggregates quantities per product (one decrement per product).
func (o Order) StockChanges() []productdom.StockChange {
	idx := map[string]int{}
	out := make([]productdom.StockChange, 0, len(o.Items))
	for _, l := range o.Items {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, productdom.StockChange{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func normalizeCustomer(c Customer) Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Phone != nil {
		s := strings.TrimSpace(*c.Phone)
		if s == "" {
			c.Phone = nil
		} else {
			c.Phone = &s
		}
	}
	if c.Address != nil {
		s := strings.TrimSpace(*c.Address)
		if s == "" {
			c.Address = nil
		} else {
			c.Address = &s
		}
	}
	return c
}
