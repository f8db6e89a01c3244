// backend/internal/platform/di/shared/runtime_settings.go
package shared

import (
	"errors"
	"strings"
	"time"

	appcfg "storefront/internal/infra/config"
)

// RuntimeSettings is env/config-resolved runtime settings (normalized once).
// It intentionally contains only "values" (no external clients).
//
// Policy:
// - Prefer config (cfg); defaults are applied in config.Load.
// - Keep normalization (trim, lower-case) here.
// - Keep hard validation in runtime_settings_validate.go.
type RuntimeSettings struct {
	StorageBackend string // memory | firestore
	StoreOpTimeout time.Duration
	SeedFixtures   bool

	// session cookie: Secure 属性 (APP_ENV=production)
	SecureCookies     bool
	CORSAllowedOrigin string

	ProductImageBucket string

	// admin key: AdminAPIKey が優先。空なら Secret Manager の AdminAPIKeySecret
	AdminAPIKey       string
	AdminAPIKeySecret string
}

// ResolveRuntimeSettings resolves and normalizes runtime settings from cfg.
//
// Notes:
// - This function is side-effect free (no logging).
// - It returns warnings as strings so callers can decide how to surface them.
func ResolveRuntimeSettings(cfg *appcfg.Config) (RuntimeSettings, []string, error) {
	if cfg == nil {
		return RuntimeSettings{}, nil, errors.New("shared.runtime_settings: cfg is nil")
	}

	var warns []string
	s := RuntimeSettings{
		StorageBackend:     strings.ToLower(strings.TrimSpace(cfg.StorageBackend)),
		StoreOpTimeout:     cfg.StoreOpTimeout,
		SeedFixtures:       cfg.SeedFixtures,
		SecureCookies:      cfg.IsProduction(),
		CORSAllowedOrigin:  strings.TrimSpace(cfg.CORSAllowedOrigin),
		ProductImageBucket: strings.TrimSpace(cfg.ProductImageBucket),
		AdminAPIKey:        strings.TrimSpace(cfg.AdminAPIKey),
		AdminAPIKeySecret:  strings.TrimSpace(cfg.AdminAPIKeySecret),
	}
	if s.StorageBackend == "" {
		s.StorageBackend = appcfg.BackendMemory
	}

	if s.CORSAllowedOrigin == "" {
		if cfg.IsProduction() {
			warns = append(warns, "CORS_ALLOWED_ORIGIN is empty in production (allowing any origin without credentials)")
		}
	}
	if s.AdminAPIKey == "" && s.AdminAPIKeySecret == "" {
		warns = append(warns, "ADMIN_API_KEY / ADMIN_API_KEY_SECRET are empty (admin endpoints will reject every request)")
	}
	if s.ProductImageBucket == "" {
		warns = append(warns, "PRODUCT_IMAGE_BUCKET is empty (only absolute image URLs are accepted)")
	}

	return s, warns, nil
}
