// backend/internal/application/query/mall/dto/catalog_dto.go
package dto

import (
	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
)

// ============================================================
// DTOs (home / category page)
// ============================================================

type HomeDTO struct {
	FeaturedProducts []productdom.ProductWithCategory `json:"featuredProducts"`
	Categories       []catdom.Category                `json:"categories"`
}

type CategoryPageDTO struct {
	Category catdom.Category                  `json:"category"`
	Products []productdom.ProductWithCategory `json:"products"`
}
