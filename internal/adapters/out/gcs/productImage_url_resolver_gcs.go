// backend/internal/adapters/out/gcs/productImage_url_resolver_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	gcscommon "storefront/internal/adapters/out/gcs/common"
	"storefront/internal/domain/common"
)

var (
	ErrInvalidImageRef = errors.New("gcs: invalid image reference")
	ErrImageNotFound   = errors.New("gcs: image object does not exist")
)

const defaultResolveTimeout = 5 * time.Second

// ProductImageURLResolver normalizes product image references into public URLs.
//
// raw can be:
// - http(s)://... (non-GCS host; returned as-is, no existence check)
// - gs://bucket/object or https://storage.googleapis.com/bucket/object
// - objectPath (treated as object path within Bucket)
//
// GCS objects are checked with Attrs when Client is set, so a product is never
// created pointing at a missing image.
type ProductImageURLResolver struct {
	Client  *storage.Client // optional: nil skips the existence check
	Bucket  string
	Timeout time.Duration
}

func NewProductImageURLResolver(client *storage.Client, bucket string) *ProductImageURLResolver {
	return &ProductImageURLResolver{
		Client:  client,
		Bucket:  strings.TrimSpace(bucket),
		Timeout: defaultResolveTimeout,
	}
}

func (r *ProductImageURLResolver) ResolveImageURL(ctx context.Context, raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return "", ErrInvalidImageRef
	}

	bucket, obj, ok := gcscommon.ParseGCSURL(p)
	if !ok {
		// 外部 URL はそのまま
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			return p, nil
		}
		if strings.Contains(p, "://") {
			return "", fmt.Errorf("%w: %q", ErrInvalidImageRef, p)
		}
		bucket = r.Bucket
		obj = strings.TrimLeft(sanitizeObjectPath(p), "/")
		if bucket == "" || obj == "" {
			return "", fmt.Errorf("%w: object path %q needs PRODUCT_IMAGE_BUCKET", ErrInvalidImageRef, p)
		}
	}

	if err := r.ensureExists(ctx, bucket, obj); err != nil {
		return "", err
	}
	return gcscommon.GCSPublicURL(bucket, obj, r.Bucket), nil
}

func (r *ProductImageURLResolver) ensureExists(ctx context.Context, bucket, obj string) error {
	if r.Client == nil {
		return nil
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	_, err := r.Client.Bucket(bucket).Object(obj).Attrs(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrObjectNotExist), errors.Is(err, storage.ErrBucketNotExist):
		return fmt.Errorf("%w: gs://%s/%s", ErrImageNotFound, bucket, obj)
	default:
		return common.Unavailable("gcs.ResolveImageURL", err)
	}
}

// sanitizeObjectPath drops empty and dot segments ("a//b/../c" -> "a/b/c").
func sanitizeObjectPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}
