// backend/internal/infra/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"

	defaultStoreOpTimeout = 10 * time.Second
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port   string
	AppEnv string // development | production

	// STORAGE_BACKEND: memory (default) | firestore
	StorageBackend string
	StoreOpTimeout time.Duration
	SeedFixtures   bool

	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// 管理 API キー。直接指定が無ければ Secret Manager の ADMIN_API_KEY_SECRET を引く
	AdminAPIKey       string
	AdminAPIKeySecret string

	ProductImageBucket string
	CORSAllowedOrigin  string
}

// Load は (.env があれば読んだ上で) 環境変数を読み込み Config を返します。
// .env は既存の環境変数を上書きしません。
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] WARN: .env load failed: %v", err)
	}
	return FromEnv()
}

// FromEnv builds Config from the process environment only.
func FromEnv() *Config {
	defaultProject := firstEnv("FIRESTORE_PROJECT_ID", "GCP_PROJECT_ID", "GOOGLE_CLOUD_PROJECT")

	cfg := &Config{
		Port:           getenvDefault("PORT", "8080"),
		AppEnv:         strings.ToLower(getenvDefault("APP_ENV", "development")),
		StorageBackend: strings.ToLower(getenvDefault("STORAGE_BACKEND", BackendMemory)),
		StoreOpTimeout: getenvDuration("STORE_OP_TIMEOUT", defaultStoreOpTimeout),
		SeedFixtures:   getenvBool("SEED_FIXTURES", true),

		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       defaultProject,
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		AdminAPIKey:       strings.TrimSpace(os.Getenv("ADMIN_API_KEY")),
		AdminAPIKeySecret: strings.TrimSpace(os.Getenv("ADMIN_API_KEY_SECRET")),

		ProductImageBucket: strings.TrimSpace(os.Getenv("PRODUCT_IMAGE_BUCKET")),
		CORSAllowedOrigin:  strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGIN")),
	}

	return cfg
}

// IsProduction: cookie の Secure 属性などに使う
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) UsesFirestore() bool {
	return c != nil && c.StorageBackend == BackendFirestore
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func (c *Config) GetFirebaseProjectID() string {
	return c.FirebaseProjectID
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// getenvDuration accepts "15s" style values or bare seconds ("15").
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("[config] WARN: invalid %s=%q (using %s)", key, v, def)
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] WARN: invalid %s=%q (using %t)", key, v, def)
		return def
	}
	return b
}
