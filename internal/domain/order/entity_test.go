package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "storefront/internal/domain/product"
)

func TestNewLine_SnapshotsPrice(t *testing.T) {
	l, err := NewLine(productdom.Product{ID: "p1", Name: "Tote", Price: "18.99"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "18.99", l.UnitPrice)
	assert.Equal(t, "56.97", l.Subtotal)

	_, err = NewLine(productdom.Product{ID: "p1", Price: "1.00"}, 0)
	assert.ErrorIs(t, err, ErrInvalidItems)
	_, err = NewLine(productdom.Product{Price: "1.00"}, 1)
	assert.ErrorIs(t, err, ErrInvalidItems)
}

func TestNew(t *testing.T) {
	now := time.Date(2025, 5, 5, 0, 0, 0, 0, time.FixedZone("JST", 9*3600))
	a, _ := NewLine(productdom.Product{ID: "a", Price: "0.10"}, 1)
	b, _ := NewLine(productdom.Product{ID: "b", Price: "0.20"}, 1)

	o, err := New("", " s1 ", Customer{Name: " Ada ", Email: " ADA@Example.com ", Phone: new(string)}, []Line{a, b}, now)
	require.NoError(t, err)
	assert.Equal(t, "0.30", o.Total)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "s1", o.SessionID)
	assert.Equal(t, "ada@example.com", o.Customer.Email)
	assert.Nil(t, o.Customer.Phone, "blank phone dropped")
	assert.Equal(t, time.UTC, o.CreatedAt.Location())

	_, err = New("", "", Customer{Name: "Ada", Email: "a@b.c"}, []Line{a}, now)
	assert.ErrorIs(t, err, ErrInvalidSessionID)
	_, err = New("", "s1", Customer{Name: "Ada", Email: "a@b.c"}, nil, now)
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = New("", "s1", Customer{Name: "", Email: "a@b.c"}, []Line{a}, now)
	assert.ErrorIs(t, err, ErrInvalidCustomer)
}

func TestStockChanges_Aggregates(t *testing.T) {
	o := Order{Items: []Line{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
		{ProductID: "a", Quantity: 3},
	}}
	assert.Equal(t, []productdom.StockChange{
		{ProductID: "a", Quantity: 4},
		{ProductID: "b", Quantity: 2},
	}, o.StockChanges())
}
