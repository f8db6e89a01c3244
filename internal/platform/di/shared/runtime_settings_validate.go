// backend/internal/platform/di/shared/runtime_settings_validate.go
package shared

import (
	"fmt"
	"strings"

	appcfg "storefront/internal/infra/config"
)

// Validate performs hard validation for RuntimeSettings.
//
// Policy:
//   - It should fail fast for values that would cause undefined behavior,
//     while allowing optional features to remain disabled when settings are empty.
func (s RuntimeSettings) Validate() error {
	switch s.StorageBackend {
	case appcfg.BackendMemory, appcfg.BackendFirestore:
	default:
		return fmt.Errorf("shared.runtime_settings: STORAGE_BACKEND must be %q or %q (got %q)",
			appcfg.BackendMemory, appcfg.BackendFirestore, s.StorageBackend)
	}

	if s.StoreOpTimeout <= 0 {
		return fmt.Errorf("shared.runtime_settings: StoreOpTimeout must be positive (got %s)", s.StoreOpTimeout)
	}

	// "*" か scheme://host[:port] のみ
	if o := s.CORSAllowedOrigin; o != "" && o != "*" {
		rest := ""
		switch {
		case strings.HasPrefix(o, "https://"):
			rest = strings.TrimPrefix(o, "https://")
		case strings.HasPrefix(o, "http://"):
			rest = strings.TrimPrefix(o, "http://")
		default:
			return fmt.Errorf("shared.runtime_settings: CORSAllowedOrigin must start with http:// or https:// (got %q)", o)
		}
		if rest == "" || strings.Contains(rest, "/") {
			return fmt.Errorf("shared.runtime_settings: CORSAllowedOrigin must not include a path (got %q)", o)
		}
	}

	// GCS bucket names cannot contain spaces or slashes.
	if strings.ContainsAny(s.ProductImageBucket, " \t\r\n/") {
		return fmt.Errorf("shared.runtime_settings: ProductImageBucket is not a bucket name (got %q)", s.ProductImageBucket)
	}

	return nil
}
