// Package storagetest is the conformance suite every Storage variant must pass.
package storagetest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	catdom "storefront/internal/domain/category"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
	userdom "storefront/internal/domain/user"
)

// Factory returns a Storage seeded with the fixture catalog.
// Stores may be shared between subtests; every subtest uses fresh session ids,
// slugs and emails.
type Factory func(t *testing.T) usecase.Storage

// Run executes the whole suite against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s usecase.Storage)
	}{
		{"AddToCart_MergesSameProduct", testAddMerges},
		{"AddToCart_OneRowPerProduct", testOneRowPerProduct},
		{"UpdateCartItem_ReplacesQuantity", testUpdateReplaces},
		{"UpdateCartItem_UnknownIDIsAbsent", testUpdateUnknown},
		{"RemoveFromCart_Idempotent", testRemoveIdempotent},
		{"ClearCart_EmptiesSession", testClearCart},
		{"ClearCart_LeavesOtherSessions", testClearCartIsolation},
		{"GetCartItem_ByPair", testGetCartItem},
		{"ConsumeCartItems_SubtractsSnapshot", testConsumeCartItems},
		{"ConsumeCartItems_OtherSessionUntouched", testConsumeOtherSession},
		{"SubscribeNewsletter_Idempotent", testSubscribeIdempotent},
		{"ListProducts_SearchBamboo", testSearchBamboo},
		{"ListProducts_SearchNoMatch", testSearchNoMatch},
		{"ListProducts_CategoryAndFeatured", testCategoryAndFeatured},
		{"ListProducts_FeaturedFalse", testFeaturedFalse},
		{"ListProducts_Limit", testLimit},
		{"GetProductBySlug_UnknownIsAbsent", testUnknownSlug},
		{"GetProductByID_JoinsCategory", testJoinCategory},
		{"CreateProduct_DanglingCategory", testDanglingCategory},
		{"CreateProduct_SlugConflict", testProductSlugConflict},
		{"GetCategoryBySlug_Seeded", testCategoryBySlug},
		{"CreateCategory_SlugConflict", testCategorySlugConflict},
		{"CreateUser_UniqueEmailAndUsername", testUserUniqueness},
		{"PlaceOrder_DecrementsStock", testPlaceOrderDecrements},
		{"PlaceOrder_InsufficientStockIsAtomic", testPlaceOrderAtomic},
		{"ReturnedValuesAreCopies", testCopies},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

// ============================================================
// helpers
// ============================================================

func newSession() string { return "test-" + uuid.New().String() }

func uniqueSlug(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func ptr[T any](v T) *T { return &v }

func createProduct(t *testing.T, s usecase.Storage, stock int, categoryID *string) *productdom.Product {
	t.Helper()
	slug := uniqueSlug("conformance")
	p, err := s.CreateProduct(context.Background(), productdom.CreateProductInput{
		Name:          "Conformance " + slug,
		Slug:          slug,
		Price:         "10.00",
		CategoryID:    categoryID,
		StockQuantity: stock,
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func add(t *testing.T, s usecase.Storage, sid, pid string, qty int) *cartdom.CartItem {
	t.Helper()
	it, err := s.AddToCart(context.Background(), cartdom.AddInput{SessionID: sid, ProductID: pid, Quantity: qty})
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

// ============================================================
// cart
// ============================================================

func testAddMerges(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()

	first := add(t, s, sid, "bamboo-toothbrush-set", 2)
	second := add(t, s, sid, "bamboo-toothbrush-set", 3)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := s.ListCartItems(ctx, sid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "bamboo-toothbrush-set", items[0].Product.ID)
}

func testOneRowPerProduct(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()

	for _, pid := range []string{"organic-cotton-tote", "beeswax-food-wraps", "organic-cotton-tote", "beeswax-food-wraps"} {
		add(t, s, sid, pid, 1)
	}

	items, err := s.ListCartItems(ctx, sid)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, it := range items {
		seen[it.ProductID]++
	}
	assert.Equal(t, map[string]int{"organic-cotton-tote": 1, "beeswax-food-wraps": 1}, seen)
	for _, it := range items {
		assert.Equal(t, 2, it.Quantity)
	}
}

func testUpdateReplaces(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()
	it := add(t, s, sid, "organic-cotton-tote", 4)

	updated, err := s.UpdateCartItem(ctx, it.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 1, updated.Quantity)

	items, err := s.ListCartItems(ctx, sid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func testUpdateUnknown(t *testing.T, s usecase.Storage) {
	it, err := s.UpdateCartItem(context.Background(), "no-such-item-"+uuid.New().String(), 3)
	require.NoError(t, err)
	assert.Nil(t, it)
}

func testRemoveIdempotent(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()
	keep := add(t, s, sid, "organic-cotton-tote", 1)
	gone := add(t, s, sid, "beeswax-food-wraps", 1)

	require.NoError(t, s.RemoveFromCart(ctx, gone.ID))
	require.NoError(t, s.RemoveFromCart(ctx, gone.ID))
	require.NoError(t, s.RemoveFromCart(ctx, "no-such-item-"+uuid.New().String()))

	items, err := s.ListCartItems(ctx, sid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)
}

func testClearCart(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()

	// clearing an empty cart is fine
	require.NoError(t, s.ClearCart(ctx, sid))

	add(t, s, sid, "organic-cotton-tote", 1)
	add(t, s, sid, "beeswax-food-wraps", 2)
	add(t, s, sid, "stainless-steel-water-bottle", 3)

	require.NoError(t, s.ClearCart(ctx, sid))

	items, err := s.ListCartItems(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testClearCartIsolation(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	a, b := newSession(), newSession()
	add(t, s, a, "organic-cotton-tote", 1)
	add(t, s, b, "organic-cotton-tote", 1)

	require.NoError(t, s.ClearCart(ctx, a))

	items, err := s.ListCartItems(ctx, b)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func testGetCartItem(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()

	got, err := s.GetCartItem(ctx, sid, "organic-cotton-tote")
	require.NoError(t, err)
	assert.Nil(t, got)

	it := add(t, s, sid, "organic-cotton-tote", 2)
	add(t, s, sid, "organic-cotton-tote", 1)

	got, err = s.GetCartItem(ctx, sid, "organic-cotton-tote")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, it.ID, got.ID)
	assert.Equal(t, 3, got.Quantity)

	other, err := s.GetCartItem(ctx, newSession(), "organic-cotton-tote")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func testConsumeCartItems(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	sid := newSession()

	tote := add(t, s, sid, "organic-cotton-tote", 2)
	wraps := add(t, s, sid, "beeswax-food-wraps", 1)
	snapshot := []cartdom.CartItem{*tote, *wraps}

	// after the snapshot: tote grows, a new line appears
	add(t, s, sid, "organic-cotton-tote", 3)
	add(t, s, sid, "bamboo-toothbrush-set", 1)

	require.NoError(t, s.ConsumeCartItems(ctx, sid, snapshot))

	items, err := s.ListCartItems(ctx, sid)
	require.NoError(t, err)
	got := map[string]int{}
	for _, it := range items {
		got[it.ProductID] = it.Quantity
	}
	assert.Equal(t, map[string]int{"organic-cotton-tote": 3, "bamboo-toothbrush-set": 1}, got)

	// already consumed ids are skipped
	require.NoError(t, s.ConsumeCartItems(ctx, sid, []cartdom.CartItem{*wraps}))
}

func testConsumeOtherSession(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	a, b := newSession(), newSession()
	it := add(t, s, a, "organic-cotton-tote", 1)

	require.NoError(t, s.ConsumeCartItems(ctx, b, []cartdom.CartItem{*it}))

	items, err := s.ListCartItems(ctx, a)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// ============================================================
// newsletter
// ============================================================

func testSubscribeIdempotent(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	email := "conformance+" + uuid.New().String()[:8] + "@example.com"

	first, err := s.SubscribeNewsletter(ctx, email)
	require.NoError(t, err)
	second, err := s.SubscribeNewsletter(ctx, email)
	require.NoError(t, err)
	third, err := s.SubscribeNewsletter(ctx, "  "+strings.ToUpper(email)+" ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ID, third.ID)

	subs, err := s.ListSubscribers(ctx)
	require.NoError(t, err)
	n := 0
	for _, sub := range subs {
		if sub.Email == strings.ToLower(email) {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

// ============================================================
// catalog
// ============================================================

func testSearchBamboo(t *testing.T, s usecase.Storage) {
	ctx := context.Background()

	all, err := s.ListProducts(ctx, productdom.ListOptions{})
	require.NoError(t, err)

	got, err := s.ListProducts(ctx, productdom.ListOptions{Search: "bamboo"})
	require.NoError(t, err)

	want := map[string]bool{}
	for _, p := range all {
		if containsFold(p.Name, "bamboo") ||
			(p.Description != nil && containsFold(*p.Description, "bamboo")) ||
			(p.ShortDescription != nil && containsFold(*p.ShortDescription, "bamboo")) {
			want[p.ID] = true
		}
	}
	gotIDs := map[string]bool{}
	for _, p := range got {
		gotIDs[p.ID] = true
	}

	assert.Equal(t, want, gotIDs)
	assert.True(t, gotIDs["bamboo-toothbrush-set"])

	// case-insensitive
	upper, err := s.ListProducts(ctx, productdom.ListOptions{Search: "BAMBOO"})
	require.NoError(t, err)
	assert.Len(t, upper, len(got))
}

func testSearchNoMatch(t *testing.T, s usecase.Storage) {
	got, err := s.ListProducts(context.Background(), productdom.ListOptions{Search: "nonexistent-term-xyz"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testCategoryAndFeatured(t *testing.T, s usecase.Storage) {
	got, err := s.ListProducts(context.Background(), productdom.ListOptions{
		CategoryID: "kitchen",
		Featured:   ptr(true),
	})
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, p := range got {
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, "kitchen", *p.CategoryID)
		assert.True(t, p.IsFeatured)
		ids[p.ID] = true
	}
	assert.True(t, ids["stainless-steel-water-bottle"])
	assert.True(t, ids["beeswax-food-wraps"])
}

func testFeaturedFalse(t *testing.T, s usecase.Storage) {
	p := createProduct(t, s, 5, nil)

	got, err := s.ListProducts(context.Background(), productdom.ListOptions{Featured: ptr(false)})
	require.NoError(t, err)

	found := false
	for _, x := range got {
		assert.False(t, x.IsFeatured)
		if x.ID == p.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func testLimit(t *testing.T, s usecase.Storage) {
	got, err := s.ListProducts(context.Background(), productdom.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// limit after filters
	got, err = s.ListProducts(context.Background(), productdom.ListOptions{Search: "bamboo", Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, containsFold(got[0].Name+" "+deref(got[0].Description)+" "+deref(got[0].ShortDescription), "bamboo"))
}

func testUnknownSlug(t *testing.T, s usecase.Storage) {
	p, err := s.GetProductBySlug(context.Background(), "no-such-product-"+uuid.New().String()[:8])
	require.NoError(t, err)
	assert.Nil(t, p)

	byID, err := s.GetProductByID(context.Background(), "no-such-product-"+uuid.New().String()[:8])
	require.NoError(t, err)
	assert.Nil(t, byID)
}

func testJoinCategory(t *testing.T, s usecase.Storage) {
	p, err := s.GetProductByID(context.Background(), "bamboo-toothbrush-set")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.Category)
	assert.Equal(t, "personal-care", p.Category.ID)
	assert.Equal(t, "24.99", p.Price)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, "29.99", *p.OriginalPrice)

	bySlug, err := s.GetProductBySlug(context.Background(), "bamboo-toothbrush-set")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, p.ID, bySlug.ID)
}

func testDanglingCategory(t *testing.T, s usecase.Storage) {
	created := createProduct(t, s, 3, ptr("ghost-category-"+uuid.New().String()[:8]))

	p, err := s.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.Category)
}

func testProductSlugConflict(t *testing.T, s usecase.Storage) {
	_, err := s.CreateProduct(context.Background(), productdom.CreateProductInput{
		Name:  "Duplicate",
		Slug:  "bamboo-toothbrush-set",
		Price: "1.00",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, productdom.ErrConflict)
}

func testCategoryBySlug(t *testing.T, s usecase.Storage) {
	c, err := s.GetCategoryBySlug(context.Background(), "personal-care")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Personal Care", c.Name)

	missing, err := s.GetCategoryBySlug(context.Background(), "no-such-category-"+uuid.New().String()[:8])
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 4)
}

func testCategorySlugConflict(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	slug := uniqueSlug("cat")

	c, err := s.CreateCategory(ctx, catdom.CreateCategoryInput{Name: "Fresh", Slug: slug})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.ID)

	_, err = s.CreateCategory(ctx, catdom.CreateCategoryInput{Name: "Again", Slug: slug})
	assert.ErrorIs(t, err, catdom.ErrConflict)
}

// ============================================================
// users
// ============================================================

func testUserUniqueness(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	suffix := uuid.New().String()[:8]
	email := "user-" + suffix + "@example.com"
	username := "user_" + suffix

	u, err := s.CreateUser(ctx, userdom.CreateUserInput{Name: "Ada", Email: email, Username: &username})
	require.NoError(t, err)
	require.NotNil(t, u)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, email, byID.Email)

	byName, err := s.GetUserByUsername(ctx, username)
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := s.GetUserByEmail(ctx, strings.ToUpper(email))
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.CreateUser(ctx, userdom.CreateUserInput{Name: "Other", Email: email})
	assert.ErrorIs(t, err, userdom.ErrConflict)

	_, err = s.CreateUser(ctx, userdom.CreateUserInput{Name: "Other", Email: "other-" + email, Username: &username})
	assert.ErrorIs(t, err, userdom.ErrConflict)

	missing, err := s.GetUserByUsername(ctx, "nobody_"+suffix)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// ============================================================
// orders
// ============================================================

func newOrder(t *testing.T, p productdom.Product, qty int) orderdom.Order {
	t.Helper()
	line, err := orderdom.NewLine(p, qty)
	require.NoError(t, err)
	o, err := orderdom.New("", newSession(), orderdom.Customer{Name: "Ada", Email: "ada@example.com"}, []orderdom.Line{line}, p.CreatedAt)
	require.NoError(t, err)
	return o
}

func testPlaceOrderDecrements(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	p := createProduct(t, s, 3, nil)

	saved, err := s.PlaceOrder(ctx, newOrder(t, *p, 2))
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "20.00", saved.Total)

	after, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, 1, after.StockQuantity)
	assert.True(t, after.InStock)

	// down to zero flips inStock
	_, err = s.PlaceOrder(ctx, newOrder(t, *p, 1))
	require.NoError(t, err)
	after, err = s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.StockQuantity)
	assert.False(t, after.InStock)

	got, err := s.GetOrderByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, orderdom.StatusPending, got.Status)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	recent, err := s.ListRecentOrders(ctx, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, recent)

	missing, err := s.GetOrderByID(ctx, "no-such-order-"+uuid.New().String()[:8])
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testPlaceOrderAtomic(t *testing.T, s usecase.Storage) {
	ctx := context.Background()
	plenty := createProduct(t, s, 10, nil)
	scarce := createProduct(t, s, 1, nil)

	l1, err := orderdom.NewLine(*plenty, 2)
	require.NoError(t, err)
	l2, err := orderdom.NewLine(*scarce, 5)
	require.NoError(t, err)
	o, err := orderdom.New("", newSession(), orderdom.Customer{Name: "Ada", Email: "ada@example.com"}, []orderdom.Line{l1, l2}, plenty.CreatedAt)
	require.NoError(t, err)

	_, err = s.PlaceOrder(ctx, o)
	require.Error(t, err)
	assert.ErrorIs(t, err, productdom.ErrInsufficientStock)

	after, err := s.GetProductByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.StockQuantity)
	after, err = s.GetProductByID(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.StockQuantity)
}

// ============================================================
// ownership
// ============================================================

func testCopies(t *testing.T, s usecase.Storage) {
	ctx := context.Background()

	p, err := s.GetProductByID(ctx, "bamboo-toothbrush-set")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotEmpty(t, p.ImageURLs)
	p.Name = "mutated"
	p.ImageURLs[0] = "mutated"
	if p.Category != nil {
		p.Category.Name = "mutated"
	}

	again, err := s.GetProductByID(ctx, "bamboo-toothbrush-set")
	require.NoError(t, err)
	assert.Equal(t, "Bamboo Toothbrush Set", again.Name)
	assert.NotEqual(t, "mutated", again.ImageURLs[0])
	require.NotNil(t, again.Category)
	assert.Equal(t, "Personal Care", again.Category.Name)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
