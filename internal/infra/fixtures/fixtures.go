// backend/internal/infra/fixtures/fixtures.go
package fixtures

import (
	"time"

	catdom "storefront/internal/domain/category"
	productdom "storefront/internal/domain/product"
)

// SeedEpoch is the createdAt of the first seeded product; later fixtures are
// one second apart so createdAt ordering follows fixture order.
var SeedEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// SeedProduct pairs a create input with its fixed createdAt.
type SeedProduct struct {
	Input     productdom.CreateProductInput
	CreatedAt time.Time
}

const unsplash = "https://images.unsplash.com/"

func img(photo, size string) string {
	return unsplash + photo + "?ixlib=rb-4.0.3&auto=format&fit=crop&" + size
}

// Categories returns the seeded categories (id == slug).
func Categories() []catdom.CreateCategoryInput {
	return []catdom.CreateCategoryInput{
		{
			ID:          "home-garden",
			Name:        "Home & Garden",
			Slug:        "home-garden",
			Description: ptr("Sustainable solutions for your living space"),
			ImageURL:    ptr(img("photo-1416879595882-3373a0480b5b", "w=400&h=300")),
		},
		{
			ID:          "personal-care",
			Name:        "Personal Care",
			Slug:        "personal-care",
			Description: ptr("Natural beauty and wellness products"),
			ImageURL:    ptr(img("photo-1596462502278-27bfdc403348", "w=400&h=300")),
		},
		{
			ID:          "kitchen",
			Name:        "Kitchen",
			Slug:        "kitchen",
			Description: ptr("Eco-friendly cooking and dining essentials"),
			ImageURL:    ptr(img("photo-1556909114-f6e7ad7d3136", "w=400&h=300")),
		},
		{
			ID:          "fashion",
			Name:        "Fashion",
			Slug:        "fashion",
			Description: ptr("Sustainable clothing and accessories"),
			ImageURL:    ptr(img("photo-1445205170230-053b83016050", "w=400&h=300")),
		},
	}
}

// Products returns the seeded products, all featured.
func Products() []SeedProduct {
	inputs := []productdom.CreateProductInput{
		{
			ID:               "bamboo-toothbrush-set",
			Name:             "Bamboo Toothbrush Set",
			Slug:             "bamboo-toothbrush-set",
			Description:      ptr("Made from sustainably sourced bamboo, these toothbrushes are completely biodegradable and perfect for eco-conscious families. Each set includes 4 toothbrushes with different colored bristles for easy identification."),
			ShortDescription: ptr("Set of 4 biodegradable bamboo toothbrushes"),
			Price:            "24.99",
			OriginalPrice:    ptr("29.99"),
			CategoryID:       ptr("personal-care"),
			ImageURL:         ptr(img("photo-1609840114035-3c981b782dfe", "w=400&h=300")),
			ImageURLs: []string{
				img("photo-1609840114035-3c981b782dfe", "w=800&h=600"),
				img("photo-1609840114035-3c981b782dfe", "w=200&h=150"),
			},
			InStock:       ptr(true),
			StockQuantity: 50,
			Rating:        ptr("5.0"),
			ReviewCount:   128,
			Features:      []string{"100% biodegradable bamboo handle", "Medium softness bristles", "Plastic-free packaging", "Set of 4 different colors"},
			IsFeatured:    true,
		},
		{
			ID:               "organic-cotton-tote",
			Name:             "Organic Cotton Tote Bag",
			Slug:             "organic-cotton-tote",
			Description:      ptr("Durable and stylish eco-friendly shopping bag made from 100% organic cotton. Perfect for grocery shopping, beach trips, or everyday use."),
			ShortDescription: ptr("Durable and stylish eco-friendly shopping bag"),
			Price:            "18.99",
			CategoryID:       ptr("fashion"),
			ImageURL:         ptr(img("photo-1573408301185-9146fe634ad0", "w=400&h=300")),
			ImageURLs:        []string{img("photo-1573408301185-9146fe634ad0", "w=800&h=600")},
			InStock:          ptr(true),
			StockQuantity:    25,
			Rating:           ptr("4.5"),
			ReviewCount:      89,
			Features:         []string{"100% organic cotton", "Reinforced handles", "Machine washable", "Spacious design"},
			IsFeatured:       true,
		},
		{
			ID:               "stainless-steel-water-bottle",
			Name:             "Stainless Steel Water Bottle",
			Slug:             "stainless-steel-water-bottle",
			Description:      ptr("Insulated stainless steel water bottle that keeps drinks hot or cold for hours. BPA-free and perfect for outdoor activities."),
			ShortDescription: ptr("Insulated bottle keeps drinks hot or cold for hours"),
			Price:            "32.99",
			CategoryID:       ptr("kitchen"),
			ImageURL:         ptr(img("photo-1602143407151-7111542de6e8", "w=400&h=300")),
			ImageURLs:        []string{img("photo-1602143407151-7111542de6e8", "w=800&h=600")},
			InStock:          ptr(true),
			StockQuantity:    30,
			Rating:           ptr("5.0"),
			ReviewCount:      156,
			Features:         []string{"Double-wall insulation", "BPA-free", "Leak-proof design", "24-hour cold retention"},
			IsFeatured:       true,
		},
		{
			ID:               "beeswax-food-wraps",
			Name:             "Beeswax Food Wraps",
			Slug:             "beeswax-food-wraps",
			Description:      ptr("Reusable alternative to plastic wrap made from organic cotton and natural beeswax. Perfect for wrapping sandwiches, cheese, and leftovers."),
			ShortDescription: ptr("Reusable alternative to plastic wrap - set of 3"),
			Price:            "22.99",
			CategoryID:       ptr("kitchen"),
			ImageURL:         ptr(img("photo-1558618666-fcd25c85cd64", "w=400&h=300")),
			ImageURLs:        []string{img("photo-1558618666-fcd25c85cd64", "w=800&h=600")},
			InStock:          ptr(true),
			StockQuantity:    40,
			Rating:           ptr("4.0"),
			ReviewCount:      73,
			Features:         []string{"Natural beeswax coating", "Organic cotton base", "Washable and reusable", "Set of 3 sizes"},
			IsFeatured:       true,
		},
	}

	out := make([]SeedProduct, 0, len(inputs))
	for i, in := range inputs {
		out = append(out, SeedProduct{
			Input:     in,
			CreatedAt: SeedEpoch.Add(time.Duration(i) * time.Second),
		})
	}
	return out
}

func ptr[T any](v T) *T { return &v }
