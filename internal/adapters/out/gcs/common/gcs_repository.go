// backend/internal/adapters/out/gcs/common/gcs_repository.go
package common

import (
	"fmt"
	"net/url"
	"strings"
)

// PublicHost is the host used for public object URLs.
const PublicHost = "storage.googleapis.com"

// GCSPublicURL builds a public GCS URL.
// - bucket が空なら defaultBucket を使用
// - objectPath の先頭の "/" は除去、各セグメントは URL エスケープ
func GCSPublicURL(bucket, objectPath, defaultBucket string) string {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = strings.TrimSpace(defaultBucket)
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	segs := strings.Split(obj, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://%s/%s/%s", PublicHost, b, strings.Join(segs, "/"))
}

// ParseGCSURL parses a GCS reference and returns (bucket, objectPath, ok).
// 対応例:
//   - gs://<bucket>/<object>
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
func ParseGCSURL(u string) (string, string, bool) {
	raw := strings.TrimSpace(u)
	if rest, ok := strings.CutPrefix(raw, "gs://"); ok {
		bucket, obj, found := strings.Cut(rest, "/")
		if !found || bucket == "" || strings.TrimLeft(obj, "/") == "" {
			return "", "", false
		}
		return bucket, strings.TrimLeft(obj, "/"), true
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}

	host := strings.ToLower(parsed.Host)
	if host != PublicHost && host != "storage.cloud.google.com" {
		return "", "", false
	}

	p := strings.TrimLeft(parsed.EscapedPath(), "/")
	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], objectPath, true
}
