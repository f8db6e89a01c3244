// backend/internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ClientWrapper は Firestore クライアントと接続先の情報を保持します。
type ClientWrapper struct {
	Client    *firestore.Client
	ProjectID string
	Emulator  string // FIRESTORE_EMULATOR_HOST (空なら本番)
}

// NewClient は Firestore クライアントを初期化します。
// credentialsFile が空文字の場合は ADC を使用します。
// FIRESTORE_EMULATOR_HOST が設定されていればクライアントライブラリ側がエミュレータへ向けます。
func NewClient(ctx context.Context, projectID string, credentialsFile string) (*ClientWrapper, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("firestoreinfra: projectID is empty")
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(credentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: create client (project=%s): %w", projectID, err)
	}

	cw := &ClientWrapper{
		Client:    client,
		ProjectID: projectID,
		Emulator:  strings.TrimSpace(os.Getenv("FIRESTORE_EMULATOR_HOST")),
	}
	if cw.Emulator != "" {
		log.Printf("[firestoreinfra] connected to emulator host=%s project=%s", cw.Emulator, projectID)
	} else {
		log.Printf("[firestoreinfra] connected project=%s", projectID)
	}
	return cw, nil
}

// Ping は 1 コレクションだけ列挙して接続と権限を確認します。
func (cw *ClientWrapper) Ping(ctx context.Context) error {
	if cw == nil || cw.Client == nil {
		return errors.New("firestoreinfra: client is nil")
	}
	_, err := cw.Client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestoreinfra: ping failed: %w", err)
	}
	return nil
}

// Close は Firestore クライアントをクローズします。
func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}
