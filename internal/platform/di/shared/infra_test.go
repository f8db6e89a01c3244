package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "storefront/internal/infra/config"
)

func memoryConfig() *appcfg.Config {
	return &appcfg.Config{
		Port:           "8080",
		AppEnv:         "development",
		StorageBackend: appcfg.BackendMemory,
		StoreOpTimeout: 5 * time.Second,
		SeedFixtures:   true,
		AdminAPIKey:    "secret",
	}
}

func TestNewInfra_MemoryNeedsNoClients(t *testing.T) {
	inf, err := NewInfra(context.Background(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = inf.Close() })

	assert.Nil(t, inf.FirestoreClient())
	assert.Nil(t, inf.GCS)
	assert.Nil(t, inf.SecretManager)
	assert.Nil(t, inf.FirebaseAuth)
	assert.Equal(t, appcfg.BackendMemory, inf.Settings.StorageBackend)
}

func TestNewInfra_FirestoreWithoutProjectFails(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageBackend = appcfg.BackendFirestore

	_, err := NewInfra(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "projectID is empty")
}

func TestNilInfraIsSafe(t *testing.T) {
	var inf *Infra
	assert.Nil(t, inf.FirestoreClient())
	assert.NoError(t, inf.Close())
}

func TestResolveRuntimeSettings(t *testing.T) {
	cfg := memoryConfig()
	cfg.AppEnv = "production"
	cfg.StorageBackend = " Memory "
	cfg.AdminAPIKey = ""

	s, warns, err := ResolveRuntimeSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, appcfg.BackendMemory, s.StorageBackend)
	assert.True(t, s.SecureCookies)
	assert.Len(t, warns, 3)

	_, _, err = ResolveRuntimeSettings(nil)
	assert.Error(t, err)
}

func TestRuntimeSettings_Validate(t *testing.T) {
	ok := RuntimeSettings{StorageBackend: appcfg.BackendMemory, StoreOpTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(*RuntimeSettings)
		wantErr bool
	}{
		{"defaults", func(*RuntimeSettings) {}, false},
		{"firestore", func(s *RuntimeSettings) { s.StorageBackend = appcfg.BackendFirestore }, false},
		{"unknown backend", func(s *RuntimeSettings) { s.StorageBackend = "postgres" }, true},
		{"zero timeout", func(s *RuntimeSettings) { s.StoreOpTimeout = 0 }, true},
		{"any origin", func(s *RuntimeSettings) { s.CORSAllowedOrigin = "*" }, false},
		{"origin", func(s *RuntimeSettings) { s.CORSAllowedOrigin = "https://shop.example.com" }, false},
		{"origin with path", func(s *RuntimeSettings) { s.CORSAllowedOrigin = "https://shop.example.com/app" }, true},
		{"origin without scheme", func(s *RuntimeSettings) { s.CORSAllowedOrigin = "shop.example.com" }, true},
		{"bucket with slash", func(s *RuntimeSettings) { s.ProductImageBucket = "a/b" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mutate(&s)
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}
