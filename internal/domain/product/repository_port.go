// backend/internal/domain/product/repository_port.go
package product

import (
	"context"
	"errors"
)

// CreateProductInput - 作成入力
// InStock が nil の場合は StockQuantity > 0 から導出する。
type CreateProductInput struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      *string  `json:"description,omitempty"`
	ShortDescription *string  `json:"shortDescription,omitempty"`
	Price            string   `json:"price"`
	OriginalPrice    *string  `json:"originalPrice,omitempty"`
	CategoryID       *string  `json:"categoryId,omitempty"`
	ImageURL         *string  `json:"imageUrl,omitempty"`
	ImageURLs        []string `json:"imageUrls,omitempty"`
	InStock          *bool    `json:"inStock,omitempty"`
	StockQuantity    int      `json:"stockQuantity"`
	Rating           *string  `json:"rating,omitempty"`
	ReviewCount      int      `json:"reviewCount"`
	Features         []string `json:"features,omitempty"`
	IsFeatured       bool     `json:"isFeatured"`
}

// StockChange is one decrement applied when an order is placed.
type StockChange struct {
	ProductID string
	Quantity  int
}

// Repository is the persistence port for products.
//
// Not-found policy: GetProductByID / GetProductBySlug return (nil, nil).
// Reads join the category at read time; a dangling categoryId yields Category == nil.
type Repository interface {
	ListProducts(ctx context.Context, opts ListOptions) ([]ProductWithCategory, error)
	GetProductByID(ctx context.Context, id string) (*ProductWithCategory, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductWithCategory, error)
	CreateProduct(ctx context.Context, in CreateProductInput) (*Product, error)
}

var ErrConflict = errors.New("product: slug already exists")
