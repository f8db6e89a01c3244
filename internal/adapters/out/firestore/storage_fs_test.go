package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/adapters/out/storagetest"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/common"
	productdom "storefront/internal/domain/product"
)

// emulatorClient connects to FIRESTORE_EMULATOR_HOST with a throwaway project
// so runs do not see each other's documents.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "storefront-test-"+uuid.New().String()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStorage_Conformance(t *testing.T) {
	client := emulatorClient(t)
	s := NewStorage(client, 0)

	_, err := s.Seed(context.Background())
	require.NoError(t, err)

	storagetest.Run(t, func(t *testing.T) usecase.Storage { return s })
}

func TestStorage_SeedTwice(t *testing.T) {
	client := emulatorClient(t)
	s := NewStorage(client, 0)
	ctx := context.Background()

	first, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Categories)
	assert.Equal(t, 4, first.Products)

	second, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Categories)
	assert.Zero(t, second.Products)
	assert.Equal(t, 8, second.Skipped)

	ps, err := s.ListProducts(ctx, productdom.ListOptions{})
	require.NoError(t, err)
	require.Len(t, ps, 4)
	assert.Equal(t, "bamboo-toothbrush-set", ps[0].ID)
	assert.Equal(t, "beeswax-food-wraps", ps[3].ID)
}

func TestStorage_NilClientIsUnavailable(t *testing.T) {
	s := NewStorage(nil, time.Second)

	_, err := s.ListCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)

	_, err = s.ListCartItems(context.Background(), "sid")
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, true},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), true},
		{"grpc permission", status.Error(codes.PermissionDenied, "nope"), true},
		{"grpc invalid", status.Error(codes.InvalidArgument, "bad"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr("op", tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.unavailable, errors.Is(got, common.ErrBackendUnavailable))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestCartItemDocID(t *testing.T) {
	id, err := cartItemDocID("s1", "p1")
	require.NoError(t, err)
	again, err := cartItemDocID("s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	// separator-looking ids must not share a doc
	a, err := cartItemDocID("a__b", "c")
	require.NoError(t, err)
	b, err := cartItemDocID("a", "b__c")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	c, err := cartItemDocID("a_", "_b")
	require.NoError(t, err)
	d, err := cartItemDocID("a", "__b")
	require.NoError(t, err)
	assert.NotEqual(t, c, d)

	for _, tt := range []struct{ sid, pid string }{
		{"", "p1"},
		{"s1", ""},
		{"s/1", "p1"},
		{"s1", "p/1"},
		{"s\x00", "p1"},
		{"s1", "\x00p1"},
	} {
		_, err := cartItemDocID(tt.sid, tt.pid)
		assert.ErrorIs(t, err, cartdom.ErrInvalidCartItem, "%q/%q", tt.sid, tt.pid)
	}
}

func TestStorage_AddToCartKeepsSeparatorLookalikesApart(t *testing.T) {
	client := emulatorClient(t)
	s := NewStorage(client, 0)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, productdom.CreateProductInput{ID: "b__c", Name: "B", Slug: "b-c-" + uuid.New().String()[:8], Price: "1.00", StockQuantity: 5})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, productdom.CreateProductInput{ID: "c", Name: "C", Slug: "c-" + uuid.New().String()[:8], Price: "1.00", StockQuantity: 5})
	require.NoError(t, err)

	_, err = s.AddToCart(ctx, cartdom.AddInput{SessionID: "a__b", ProductID: "c", Quantity: 1})
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, cartdom.AddInput{SessionID: "a", ProductID: "b__c", Quantity: 2})
	require.NoError(t, err)

	first, err := s.ListCartItems(ctx, "a__b")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, first[0].Quantity)

	second, err := s.ListCartItems(ctx, "a")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Quantity)
}

func TestSubscriberDocID(t *testing.T) {
	assert.Equal(t, subscriberDocID("a@example.com"), subscriberDocID("a@example.com"))
	assert.NotEqual(t, subscriberDocID("a@example.com"), subscriberDocID("b@example.com"))
}
