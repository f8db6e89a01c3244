package category

import (
	"context"
	"errors"
)

// CreateCategoryInput - 作成入力（id はリポジトリ側で採番してよい）
type CreateCategoryInput struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Repository is the persistence port for categories.
// Not-found policy: Get* return (nil, nil).
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*Category, error)
}

var ErrConflict = errors.New("category: slug already exists")
