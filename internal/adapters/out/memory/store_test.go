package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/storagetest"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/common"
	productdom "storefront/internal/domain/product"
)

func TestStore_Conformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) usecase.Storage {
		return New()
	})
}

func TestNew_SeedsFixtures(t *testing.T) {
	s := New()
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 4)

	ps, err := s.ListProducts(ctx, productdom.ListOptions{})
	require.NoError(t, err)
	require.Len(t, ps, 4)

	// fixture order (createdAt ascending)
	ids := []string{ps[0].ID, ps[1].ID, ps[2].ID, ps[3].ID}
	assert.Equal(t, []string{
		"bamboo-toothbrush-set",
		"organic-cotton-tote",
		"stainless-steel-water-bottle",
		"beeswax-food-wraps",
	}, ids)
	for _, p := range ps {
		assert.True(t, p.IsFeatured)
	}
}

func TestNewEmpty_HasNoCatalog(t *testing.T) {
	s := NewEmpty()
	ps, err := s.ListProducts(context.Background(), productdom.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestListCartItems_ProductMissingFailsWholeListing(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.AddToCart(ctx, cartdom.AddInput{SessionID: "s1", ProductID: "organic-cotton-tote", Quantity: 1})
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, cartdom.AddInput{SessionID: "s1", ProductID: "beeswax-food-wraps", Quantity: 1})
	require.NoError(t, err)

	s.mu.Lock()
	delete(s.products, "beeswax-food-wraps")
	s.mu.Unlock()

	items, err := s.ListCartItems(ctx, "s1")
	assert.Nil(t, items)
	assert.ErrorIs(t, err, cartdom.ErrProductMissing)
}

func TestStore_CancelledContextIsBackendUnavailable(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListProducts(ctx, productdom.ListOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBackendUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAddToCart_ConcurrentMergeKeepsOneRow(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddToCart(ctx, cartdom.AddInput{SessionID: "same", ProductID: "organic-cotton-tote", Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.ListCartItems(ctx, "same")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}

func TestListCartItems_OrderedByCreatedAt(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s := New(WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	ctx := context.Background()

	for _, pid := range []string{"stainless-steel-water-bottle", "bamboo-toothbrush-set", "organic-cotton-tote"} {
		_, err := s.AddToCart(ctx, cartdom.AddInput{SessionID: "ordered", ProductID: pid, Quantity: 1})
		require.NoError(t, err)
	}

	items, err := s.ListCartItems(ctx, "ordered")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "stainless-steel-water-bottle", items[0].ProductID)
	assert.Equal(t, "bamboo-toothbrush-set", items[1].ProductID)
	assert.Equal(t, "organic-cotton-tote", items[2].ProductID)
}
