package product

import "strings"

// ListOptions is the filter contract shared by every storage backend.
//
//   - CategoryID: exact match ("" disables)
//   - Search:     case-insensitive substring over name / description / shortDescription (OR)
//   - Featured:   exact match on IsFeatured (nil disables)
//   - Limit:      first N after all filters (<= 0 disables)
//
// Filters compose with AND. Limit is applied last.
type ListOptions struct {
	CategoryID string
	Search     string
	Featured   *bool
	Limit      int
}

// Normalize trims string filters.
func (o ListOptions) Normalize() ListOptions {
	o.CategoryID = strings.TrimSpace(o.CategoryID)
	o.Search = strings.TrimSpace(o.Search)
	if o.Limit < 0 {
		o.Limit = 0
	}
	return o
}

// Match reports whether p passes categoryId, featured and search (limit is not considered).
func (o ListOptions) Match(p Product) bool {
	if o.CategoryID != "" && p.CategoryKey() != o.CategoryID {
		return false
	}
	if o.Featured != nil && p.IsFeatured != *o.Featured {
		return false
	}
	return o.MatchesSearch(p)
}

// MatchesSearch applies only the search term.
func (o ListOptions) MatchesSearch(p Product) bool {
	term := strings.ToLower(strings.TrimSpace(o.Search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term) {
		return true
	}
	if p.ShortDescription != nil && strings.Contains(strings.ToLower(*p.ShortDescription), term) {
		return true
	}
	return false
}

// Apply filters src in its current order and truncates to Limit.
func (o ListOptions) Apply(src []Product) []Product {
	o = o.Normalize()
	out := make([]Product, 0, len(src))
	for _, p := range src {
		if !o.Match(p) {
			continue
		}
		out = append(out, p)
		if o.Limit > 0 && len(out) >= o.Limit {
			break
		}
	}
	return out
}
