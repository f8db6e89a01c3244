// backend/internal/platform/di/mall/wiring_policy.go
package mall

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	fbadapter "storefront/internal/adapters/out/firebase"
	outfs "storefront/internal/adapters/out/firestore"
	gcso "storefront/internal/adapters/out/gcs"
	"storefront/internal/adapters/out/memory"
	usecase "storefront/internal/application/usecase"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
)

// wiring_policy.go defines wiring-time policies (conditional dependency assembly).
//
// Policy scope (IMPORTANT):
// - This file only decides which variant / optional dep is used, based on runtime settings.
// - Usecases are constructed in container.go.

var (
	errWiringNilInfra       = errors.New("di.mall: wiring policy infra is nil")
	errWiringNoFirestore    = errors.New("di.mall: STORAGE_BACKEND=firestore but firestore client is nil")
	errWiringUnknownBackend = errors.New("di.mall: unknown storage backend")
)

// buildStorage selects the Storage variant.
// Policy:
// - memory: fresh process-local store, fixtures unless SEED_FIXTURES=false
// - firestore: shared client; fixtures are written idempotently when SEED_FIXTURES=true
func buildStorage(ctx context.Context, infra *shared.Infra) (usecase.Storage, error) {
	if infra == nil {
		return nil, errWiringNilInfra
	}
	s := infra.Settings

	switch s.StorageBackend {
	case appcfg.BackendMemory:
		if s.SeedFixtures {
			return memory.New(), nil
		}
		return memory.NewEmpty(), nil

	case appcfg.BackendFirestore:
		client := infra.FirestoreClient()
		if client == nil {
			return nil, errWiringNoFirestore
		}
		st := outfs.NewStorage(client, s.StoreOpTimeout)
		if s.SeedFixtures {
			// seed 失敗で起動を止めない (既存データで動ける)
			if _, err := st.Seed(ctx); err != nil {
				log.Printf("[di.mall] WARN: firestore seed failed: %v", err)
			}
		}
		return st, nil

	default:
		return nil, fmt.Errorf("%w: %q", errWiringUnknownBackend, s.StorageBackend)
	}
}

// buildImageResolver wires the product image resolver.
// Policy:
// - Without a bucket, only absolute http(s) URLs pass (resolver with empty bucket).
// - With a bucket but no GCS client, object paths are accepted without existence checks.
func buildImageResolver(infra *shared.Infra) usecase.ImageURLResolver {
	if infra == nil {
		return nil
	}
	return gcso.NewProductImageURLResolver(infra.GCS, infra.Settings.ProductImageBucket)
}

// buildIdentityProvider returns nil (feature disabled) without Firebase Auth.
// nil ポインタを interface に入れないこと。
func buildIdentityProvider(infra *shared.Infra) usecase.IdentityProvider {
	if infra == nil || infra.FirebaseAuth == nil {
		return nil
	}
	idp := fbadapter.NewIdentityProviderFB(infra.FirebaseAuth)
	if idp == nil {
		return nil
	}
	return idp
}

// resolveAdminKey: ADMIN_API_KEY wins; otherwise Secret Manager.
// 解決できなければ "" (admin は全拒否)。
func resolveAdminKey(ctx context.Context, infra *shared.Infra) string {
	if infra == nil {
		return ""
	}
	if k := strings.TrimSpace(infra.Settings.AdminAPIKey); k != "" {
		return k
	}
	if infra.Settings.AdminAPIKeySecret == "" {
		return ""
	}
	if infra.SecretManager == nil {
		log.Printf("[di.mall] WARN: ADMIN_API_KEY_SECRET set but Secret Manager is unavailable")
		return ""
	}

	p := &adminKeyProviderSM{
		sm:        infra.SecretManager,
		projectID: infra.ProjectID,
		secretID:  infra.Settings.AdminAPIKeySecret,
	}
	k, err := p.AdminKey(ctx)
	if err != nil {
		log.Printf("[di.mall] WARN: admin key lookup failed: %v", err)
		return ""
	}
	log.Printf("[di.mall] admin key loaded from Secret Manager")
	return k
}
