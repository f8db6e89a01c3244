package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestCartUsecase_AddMergesAndCapsAtStock(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	uc := usecase.NewCartUsecaseWithClock(st, st, fixedClock{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})

	it, err := uc.Add(ctx, "s1", "organic-cotton-tote", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, it.Quantity)

	it, err = uc.Add(ctx, "s1", "organic-cotton-tote", 5)
	require.NoError(t, err)
	assert.Equal(t, 25, it.Quantity, "merged into the existing line")

	_, err = uc.Add(ctx, "s1", "organic-cotton-tote", 1) // stock is 25
	assert.ErrorIs(t, err, usecase.ErrValidation)
	assert.ErrorIs(t, err, usecase.ErrInsufficientStock)

	items, err := uc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 25, items[0].Quantity)
}

func TestCartUsecase_AddValidation(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	uc := usecase.NewCartUsecase(st, st)

	tests := []struct {
		name string
		sid  string
		pid  string
		qty  int
	}{
		{"no session", "", "organic-cotton-tote", 1},
		{"no product", "s1", "", 1},
		{"zero quantity", "s1", "organic-cotton-tote", 0},
		{"unknown product", "s1", "does-not-exist", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Add(ctx, tt.sid, tt.pid, tt.qty)
			assert.ErrorIs(t, err, usecase.ErrValidation)
		})
	}
}

func TestCartUsecase_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	uc := usecase.NewCartUsecase(st, st)

	it, err := uc.Add(ctx, "s1", "beeswax-food-wraps", 1)
	require.NoError(t, err)

	up, err := uc.Update(ctx, it.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, up.Quantity)

	_, err = uc.Update(ctx, it.ID, 0)
	assert.ErrorIs(t, err, usecase.ErrValidation)
	_, err = uc.Update(ctx, "missing", 1)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	require.NoError(t, uc.Remove(ctx, it.ID))
	require.NoError(t, uc.Remove(ctx, it.ID), "remove is idempotent")
	assert.ErrorIs(t, uc.Remove(ctx, " "), usecase.ErrValidation)

	_, err = uc.Add(ctx, "s1", "beeswax-food-wraps", 1)
	require.NoError(t, err)
	_, err = uc.Add(ctx, "s2", "beeswax-food-wraps", 1)
	require.NoError(t, err)
	require.NoError(t, uc.Clear(ctx, "s1"))
	require.NoError(t, uc.Clear(ctx, ""))

	s1, err := uc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, s1)
	s2, err := uc.List(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, s2, 1, "other sessions untouched")
}

func TestCartUsecase_EmptySession(t *testing.T) {
	st := memory.New()
	items, err := usecase.NewCartUsecase(st, st).List(context.Background(), "  ")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCartUsecase_BackendUnavailable(t *testing.T) {
	st := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := usecase.NewCartUsecase(st, st).List(ctx, "s1")
	assert.ErrorIs(t, err, usecase.ErrBackendUnavailable)
}

// danglingListing fails every cart listing the way a session with a line
// pointing at a deleted product does.
type danglingListing struct{ *memory.Store }

func (danglingListing) ListCartItems(context.Context, string) ([]cartdom.CartItemWithProduct, error) {
	return nil, cartdom.ErrProductMissing
}

func TestCartUsecase_StockCapIgnoresOtherLines(t *testing.T) {
	ctx := context.Background()
	st := danglingListing{memory.New()}
	uc := usecase.NewCartUsecase(st, st)

	_, err := uc.Add(ctx, "s1", "organic-cotton-tote", 20)
	require.NoError(t, err)

	_, err = uc.Add(ctx, "s1", "organic-cotton-tote", 6) // 26 > stock 25
	assert.ErrorIs(t, err, usecase.ErrInsufficientStock)

	it, err := uc.Add(ctx, "s1", "organic-cotton-tote", 5)
	require.NoError(t, err)
	assert.Equal(t, 25, it.Quantity)
}
