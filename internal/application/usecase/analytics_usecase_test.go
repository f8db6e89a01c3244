package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

func TestAnalytics_ProductAnalytics(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cart := usecase.NewCartUsecase(st, st)
	checkout := usecase.NewCheckoutUsecase(st, st)

	order := func(sid string, lines map[string]int) {
		for pid, q := range lines {
			_, err := cart.Add(ctx, sid, pid, q)
			require.NoError(t, err)
		}
		_, err := checkout.PlaceOrder(ctx, usecase.PlaceOrderInput{SessionID: sid, Customer: ada})
		require.NoError(t, err)
	}
	order("s1", map[string]int{"organic-cotton-tote": 16, "beeswax-food-wraps": 1})
	order("s2", map[string]int{"beeswax-food-wraps": 2})

	a, err := usecase.NewAnalyticsUsecase(st, st).ProductAnalytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, a.TotalProducts)
	assert.Equal(t, 2, a.TotalOrders)
	require.Len(t, a.PopularProducts, 2)
	assert.Equal(t, "organic-cotton-tote", a.PopularProducts[0].ProductID)
	assert.Equal(t, 16, a.PopularProducts[0].Sales)
	require.NotNil(t, a.PopularProducts[0].Product)
	assert.Equal(t, 3, a.PopularProducts[1].Sales)

	require.Len(t, a.LowInventoryProducts, 1)
	assert.Equal(t, "organic-cotton-tote", a.LowInventoryProducts[0].ID)
	assert.Equal(t, 9, a.LowInventoryProducts[0].StockQuantity)
}

func TestAnalytics_Empty(t *testing.T) {
	st := memory.NewEmpty()
	a, err := usecase.NewAnalyticsUsecase(st, st).ProductAnalytics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, a.TotalProducts)
	assert.Empty(t, a.PopularProducts)
	assert.Equal(t, []productdom.Product{}, a.LowInventoryProducts)
}
