package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:          " Bamboo Brush ",
		Slug:          "Bamboo-Brush",
		Price:         "24.9",
		OriginalPrice: strp("29"),
		StockQuantity: 3,
	}
}

func TestNew_Normalizes(t *testing.T) {
	p, err := New("p1", validInput(), now)
	require.NoError(t, err)

	assert.Equal(t, "Bamboo Brush", p.Name)
	assert.Equal(t, "bamboo-brush", p.Slug)
	assert.Equal(t, "24.90", p.Price)
	assert.Equal(t, "29.00", *p.OriginalPrice)
	assert.True(t, p.InStock, "derived from stockQuantity")
	assert.Equal(t, now, p.CreatedAt)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateProductInput)
		want   error
	}{
		{"empty name", func(in *CreateProductInput) { in.Name = " " }, ErrInvalidName},
		{"bad slug", func(in *CreateProductInput) { in.Slug = "no spaces" }, ErrInvalidSlug},
		{"bad price", func(in *CreateProductInput) { in.Price = "abc" }, ErrInvalidPrice},
		{"negative price", func(in *CreateProductInput) { in.Price = "-1" }, ErrInvalidPrice},
		{"bad original", func(in *CreateProductInput) { in.OriginalPrice = strp("x") }, ErrInvalidOriginalPrice},
		{"rating too high", func(in *CreateProductInput) { in.Rating = strp("5.5") }, ErrInvalidRating},
		{"negative stock", func(in *CreateProductInput) { in.StockQuantity = -1 }, ErrInvalidStock},
		{"negative reviews", func(in *CreateProductInput) { in.ReviewCount = -1 }, ErrInvalidReviewCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := New("", in, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := New("a/b", validInput(), now)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDecrementStock(t *testing.T) {
	p, err := New("p1", validInput(), now)
	require.NoError(t, err)

	require.NoError(t, p.DecrementStock(2))
	assert.Equal(t, 1, p.StockQuantity)
	assert.True(t, p.InStock)

	assert.ErrorIs(t, p.DecrementStock(2), ErrInsufficientStock)
	assert.ErrorIs(t, p.DecrementStock(0), ErrInvalidStock)

	require.NoError(t, p.DecrementStock(1))
	assert.Zero(t, p.StockQuantity)
	assert.False(t, p.InStock)
	assert.False(t, p.CanFulfil(1))
}

func TestCanFulfil_RespectsInStockFlag(t *testing.T) {
	in := validInput()
	in.InStock = new(bool) // explicitly out of stock
	p, err := New("p1", in, now)
	require.NoError(t, err)
	assert.False(t, p.CanFulfil(1))
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	in := validInput()
	in.Features = []string{"a", "b"}
	p, err := New("p1", in, now)
	require.NoError(t, err)

	cp := p.Clone()
	cp.Features[0] = "changed"
	*cp.OriginalPrice = "0.00"
	assert.Equal(t, "a", p.Features[0])
	assert.Equal(t, "29.00", *p.OriginalPrice)
}

func TestMoney(t *testing.T) {
	s, err := NormalizeMoney(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, "7.00", s)

	d, err := LineTotal("0.10", 3)
	require.NoError(t, err)
	assert.Equal(t, "0.30", FormatMoney(d))

	for _, bad := range []string{"", "1,00", "-0.01", "twelve"} {
		_, err := ParseMoney(bad)
		assert.ErrorIs(t, err, ErrInvalidMoney, bad)
	}
}
