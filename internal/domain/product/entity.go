// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"

	catdom "storefront/internal/domain/category"
)

// ===============================
// Types
// ===============================

// Product はカタログ上の商品。
// Price / OriginalPrice / Rating は decimal 文字列で保持する（float にしない）。
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      *string   `json:"description,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	Price            string    `json:"price"`
	OriginalPrice    *string   `json:"originalPrice"`
	CategoryID       *string   `json:"categoryId"`
	ImageURL         *string   `json:"imageUrl,omitempty"`
	ImageURLs        []string  `json:"imageUrls,omitempty"`
	InStock          bool      `json:"inStock"`
	StockQuantity    int       `json:"stockQuantity"`
	Rating           *string   `json:"rating,omitempty"`
	ReviewCount      int       `json:"reviewCount"`
	Features         []string  `json:"features,omitempty"`
	IsFeatured       bool      `json:"isFeatured"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ProductWithCategory is the read-time join of a product and its category.
// Category is nil when categoryId is empty or dangling.
type ProductWithCategory struct {
	Product
	Category *catdom.Category `json:"category,omitempty"`
}

// ===============================
// Errors
// ===============================

var (
	ErrInvalidID            = errors.New("product: invalid id")
	ErrInvalidName          = errors.New("product: invalid name")
	ErrInvalidSlug          = errors.New("product: invalid slug")
	ErrInvalidPrice         = errors.New("product: invalid price")
	ErrInvalidOriginalPrice = errors.New("product: invalid originalPrice")
	ErrInvalidRating        = errors.New("product: invalid rating")
	ErrInvalidStock         = errors.New("product: invalid stockQuantity")
	ErrInvalidReviewCount   = errors.New("product: invalid reviewCount")
	ErrInsufficientStock    = errors.New("product: insufficient stock")
)

// ===============================
// Constructors
// ===============================

// New builds a validated Product from a create input.
// id may be empty when the repository assigns ids itself.
func New(id string, in CreateProductInput, now time.Time) (Product, error) {
	p := Product{
		ID:               strings.TrimSpace(id),
		Name:             strings.TrimSpace(in.Name),
		Slug:             strings.ToLower(strings.TrimSpace(in.Slug)),
		Description:      normalizeStrPtr(in.Description),
		ShortDescription: normalizeStrPtr(in.ShortDescription),
		Price:            strings.TrimSpace(in.Price),
		OriginalPrice:    normalizeStrPtr(in.OriginalPrice),
		CategoryID:       normalizeStrPtr(in.CategoryID),
		ImageURL:         normalizeStrPtr(in.ImageURL),
		ImageURLs:        normalizeList(in.ImageURLs),
		StockQuantity:    in.StockQuantity,
		Rating:           normalizeStrPtr(in.Rating),
		ReviewCount:      in.ReviewCount,
		Features:         normalizeList(in.Features),
		IsFeatured:       in.IsFeatured,
		CreatedAt:        now.UTC(),
	}

	// inStock 未指定なら在庫数から導出
	if in.InStock != nil {
		p.InStock = *in.InStock
	} else {
		p.InStock = p.StockQuantity > 0
	}

	if err := p.normalizeMoney(); err != nil {
		return Product{}, err
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ===============================
// Behavior
// ===============================

// CanFulfil reports whether qty units can be sold from current stock.
func (p Product) CanFulfil(qty int) bool {
	if qty <= 0 {
		return false
	}
	return p.InStock && qty <= p.StockQuantity
}

// DecrementStock removes qty units from stock. InStock flips to false at zero.
func (p *Product) DecrementStock(qty int) error {
	if p == nil || qty <= 0 {
		return ErrInvalidStock
	}
	if !p.CanFulfil(qty) {
		return ErrInsufficientStock
	}
	p.StockQuantity -= qty
	if p.StockQuantity == 0 {
		p.InStock = false
	}
	return nil
}

// Clone returns a deep copy (slices are not shared).
func (p Product) Clone() Product {
	cp := p
	cp.Description = clonePtr(p.Description)
	cp.ShortDescription = clonePtr(p.ShortDescription)
	cp.OriginalPrice = clonePtr(p.OriginalPrice)
	cp.CategoryID = clonePtr(p.CategoryID)
	cp.ImageURL = clonePtr(p.ImageURL)
	cp.Rating = clonePtr(p.Rating)
	if p.ImageURLs != nil {
		cp.ImageURLs = append([]string(nil), p.ImageURLs...)
	}
	if p.Features != nil {
		cp.Features = append([]string(nil), p.Features...)
	}
	return cp
}

// CategoryKey returns the trimmed categoryId or "".
func (p Product) CategoryKey() string {
	if p.CategoryID == nil {
		return ""
	}
	return strings.TrimSpace(*p.CategoryID)
}

// ===============================
// Validation
// ===============================

func (p Product) Validate() error {
	if strings.Contains(p.ID, "/") {
		return ErrInvalidID
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if !catdom.IsValidSlug(p.Slug) {
		return ErrInvalidSlug
	}
	if _, err := ParseMoney(p.Price); err != nil {
		return ErrInvalidPrice
	}
	if p.OriginalPrice != nil {
		if _, err := ParseMoney(*p.OriginalPrice); err != nil {
			return ErrInvalidOriginalPrice
		}
	}
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.StockQuantity < 0 {
		return ErrInvalidStock
	}
	if p.ReviewCount < 0 {
		return ErrInvalidReviewCount
	}
	return nil
}

func (p *Product) normalizeMoney() error {
	price, err := NormalizeMoney(p.Price)
	if err != nil {
		return ErrInvalidPrice
	}
	p.Price = price

	if p.OriginalPrice != nil {
		op, err := NormalizeMoney(*p.OriginalPrice)
		if err != nil {
			return ErrInvalidOriginalPrice
		}
		p.OriginalPrice = &op
	}
	return nil
}

// ===============================
// Helpers
// ===============================

func normalizeStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeList(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	out := make([]string, 0, len(src))
	for _, s := range src {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
