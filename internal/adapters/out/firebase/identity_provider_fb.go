// backend/internal/adapters/out/firebase/identity_provider_fb.go
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	userdom "storefront/internal/domain/user"
)

// authAdmin is the subset of *fbauth.Client used here.
type authAdmin interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// IdentityProviderFB creates and deletes Firebase Auth accounts.
// パスワードはここで Firebase に渡すだけで、保存はしない。
type IdentityProviderFB struct {
	Auth authAdmin
}

func NewIdentityProviderFB(client *fbauth.Client) *IdentityProviderFB {
	if client == nil {
		return nil
	}
	return &IdentityProviderFB{Auth: client}
}

// CreateIdentity returns the Firebase UID. An existing email maps to userdom.ErrConflict.
func (p *IdentityProviderFB) CreateIdentity(ctx context.Context, email, password, displayName string) (string, error) {
	if p == nil || p.Auth == nil {
		return "", errors.New("firebase identity: auth client is nil")
	}

	params := (&fbauth.UserToCreate{}).
		Email(strings.TrimSpace(email)).
		Password(password)
	if n := strings.TrimSpace(displayName); n != "" {
		params = params.DisplayName(n)
	}

	rec, err := p.Auth.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) || fbauth.IsUIDAlreadyExists(err) {
			return "", fmt.Errorf("firebase identity: %w", userdom.ErrConflict)
		}
		if fbauth.IsInvalidEmail(err) {
			return "", fmt.Errorf("firebase identity: %w", userdom.ErrInvalidEmail)
		}
		return "", fmt.Errorf("firebase identity: create user: %w", err)
	}

	uid := strings.TrimSpace(rec.UID)
	log.Printf("[firebase] identity created uid=%s", uid)
	return uid, nil
}

// DeleteIdentity is used to roll back a registration; a missing user is not an error.
func (p *IdentityProviderFB) DeleteIdentity(ctx context.Context, uid string) error {
	if p == nil || p.Auth == nil {
		return errors.New("firebase identity: auth client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil
	}
	if err := p.Auth.DeleteUser(ctx, uid); err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil
		}
		return fmt.Errorf("firebase identity: delete user %s: %w", uid, err)
	}
	return nil
}
