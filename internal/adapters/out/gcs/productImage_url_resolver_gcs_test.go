package gcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcscommon "storefront/internal/adapters/out/gcs/common"
)

func TestProductImageURLResolver_ResolveImageURL(t *testing.T) {
	r := NewProductImageURLResolver(nil, "shop-images")

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"external url kept", "https://images.unsplash.com/photo-1?w=400", "https://images.unsplash.com/photo-1?w=400", nil},
		{"gs url", "gs://other-bucket/products/a.jpg", "https://storage.googleapis.com/other-bucket/products/a.jpg", nil},
		{"public gcs url", "https://storage.googleapis.com/b1/x/y.png", "https://storage.googleapis.com/b1/x/y.png", nil},
		{"object path", "/products//bottle.jpg", "https://storage.googleapis.com/shop-images/products/bottle.jpg", nil},
		{"object path with space", "products/my bottle.jpg", "https://storage.googleapis.com/shop-images/products/my%20bottle.jpg", nil},
		{"empty", "  ", "", ErrInvalidImageRef},
		{"other scheme", "ftp://host/x.jpg", "", ErrInvalidImageRef},
		{"gs without object", "gs://bucket-only", "", ErrInvalidImageRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveImageURL(context.Background(), tt.raw)
			if tt.wantErr != nil {
				// gs://bucket-only is not parsed as GCS and falls through to the scheme check
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductImageURLResolver_ObjectPathNeedsBucket(t *testing.T) {
	r := NewProductImageURLResolver(nil, "")
	_, err := r.ResolveImageURL(context.Background(), "products/a.jpg")
	assert.ErrorIs(t, err, ErrInvalidImageRef)
}

func TestParseGCSURL(t *testing.T) {
	b, obj, ok := gcscommon.ParseGCSURL("https://storage.cloud.google.com/bkt/a%20b/c.jpg")
	require.True(t, ok)
	assert.Equal(t, "bkt", b)
	assert.Equal(t, "a b/c.jpg", obj)

	_, _, ok = gcscommon.ParseGCSURL("https://example.com/bkt/c.jpg")
	assert.False(t, ok)
}
