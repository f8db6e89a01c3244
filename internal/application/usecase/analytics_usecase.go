// backend/internal/application/usecase/analytics_usecase.go
package usecase

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

const (
	analyticsRecentOrders  = 100
	analyticsTopProducts   = 5
	analyticsLowStockLimit = 10
)

type ProductSales struct {
	ProductID string              `json:"productId"`
	Sales     int                 `json:"sales"`
	Product   *productdom.Product `json:"product,omitempty"`
}

type ProductAnalytics struct {
	TotalProducts        int                  `json:"totalProducts"`
	TotalOrders          int                  `json:"totalOrders"`
	PopularProducts      []ProductSales       `json:"popularProducts"`
	LowInventoryProducts []productdom.Product `json:"lowInventoryProducts"`
}

type AnalyticsUsecase struct {
	products productdom.Repository
	orders   orderdom.Repository
}

func NewAnalyticsUsecase(products productdom.Repository, orders orderdom.Repository) *AnalyticsUsecase {
	return &AnalyticsUsecase{products: products, orders: orders}
}

// ProductAnalytics aggregates the last 100 orders:
// top 5 products by quantity sold and products with stockQuantity < 10.
func (u *AnalyticsUsecase) ProductAnalytics(ctx context.Context) (ProductAnalytics, error) {
	var (
		products []productdom.ProductWithCategory
		orders   []orderdom.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = u.products.ListProducts(gctx, productdom.ListOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = u.orders.ListRecentOrders(gctx, analyticsRecentOrders)
		return err
	})
	if err := g.Wait(); err != nil {
		return ProductAnalytics{}, classify(err)
	}

	byID := make(map[string]productdom.Product, len(products))
	low := []productdom.Product{}
	for _, p := range products {
		byID[p.ID] = p.Product
		if p.StockQuantity < analyticsLowStockLimit {
			low = append(low, p.Product)
		}
	}

	sales := map[string]int{}
	for _, o := range orders {
		for _, l := range o.Items {
			sales[l.ProductID] += l.Quantity
		}
	}

	popular := make([]ProductSales, 0, len(sales))
	for pid, n := range sales {
		ps := ProductSales{ProductID: pid, Sales: n}
		if p, ok := byID[pid]; ok {
			p := p
			ps.Product = &p
		}
		popular = append(popular, ps)
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Sales != popular[j].Sales {
			return popular[i].Sales > popular[j].Sales
		}
		return popular[i].ProductID < popular[j].ProductID
	})
	if len(popular) > analyticsTopProducts {
		popular = popular[:analyticsTopProducts]
	}

	return ProductAnalytics{
		TotalProducts:        len(products),
		TotalOrders:          len(orders),
		PopularProducts:      popular,
		LowInventoryProducts: low,
	}, nil
}
