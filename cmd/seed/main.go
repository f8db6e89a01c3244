// backend/cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	outfs "storefront/internal/adapters/out/firestore"
	appcfg "storefront/internal/infra/config"
	firestoreinfra "storefront/internal/infra/firestore"
)

// seed writes the fixture catalog into Firestore.
// 既存 id はスキップするので何度流してもよい。
//
//	go run ./cmd/seed -project my-project
//	FIRESTORE_EMULATOR_HOST=localhost:8081 go run ./cmd/seed -project demo
func main() {
	cfg := appcfg.Load()

	project := flag.String("project", cfg.GetFirestoreProjectID(), "GCP project id")
	creds := flag.String("credentials", firstNonEmpty(cfg.FirestoreCredentialsFile, cfg.GCPCreds), "service account json (optional; ADC when empty)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cw, err := firestoreinfra.NewClient(ctx, *project, *creds)
	if err != nil {
		log.Fatalf("[seed] %v", err)
	}
	defer func() { _ = cw.Close() }()

	if err := cw.Ping(ctx); err != nil {
		log.Fatalf("[seed] %v", err)
	}

	st := outfs.NewStorage(cw.Client, cfg.StoreOpTimeout)
	res, err := st.Seed(ctx)
	if err != nil {
		log.Printf("[seed] failed: %v", err)
		os.Exit(1)
	}
	log.Printf("[seed] done project=%s categories=%d products=%d skipped=%d",
		cw.ProjectID, res.Categories, res.Products, res.Skipped)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
