// internal/domain/category/entity.go
package category

import (
	"errors"
	"regexp"
	"strings"
)

// Category はカタログの分類です。Slug はルーティングに使われるため一意かつ URL-safe。
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

var (
	ErrInvalidID   = errors.New("category: invalid id")
	ErrInvalidName = errors.New("category: invalid name")
	ErrInvalidSlug = errors.New("category: invalid slug")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is a lower-case, hyphen-separated URL segment.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// New normalizes and validates a category. id may be empty (assigned by storage).
func New(id, name, slug string, description, imageURL *string) (Category, error) {
	c := Category{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Slug:        strings.ToLower(strings.TrimSpace(slug)),
		Description: normalizeStrPtr(description),
		ImageURL:    normalizeStrPtr(imageURL),
	}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (c Category) Validate() error {
	// id は Firestore の docId にもなるため "/" を含めない
	if strings.Contains(c.ID, "/") {
		return ErrInvalidID
	}
	if c.Name == "" {
		return ErrInvalidName
	}
	if !IsValidSlug(c.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

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
