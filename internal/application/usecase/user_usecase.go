package usecase

import (
	"context"
	"log"
	"strings"

	userdom "storefront/internal/domain/user"
)

// IdentityProvider is the outbound port to the external IdP (Firebase Auth).
// Passwords never reach the user repository.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password, displayName string) (uid string, err error)
	DeleteIdentity(ctx context.Context, uid string) error
}

type RegisterUserInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username *string `json:"username,omitempty"`
	Password string  `json:"password,omitempty"`
}

// UserUsecase orchestrates user registration and lookup.
type UserUsecase struct {
	repo     userdom.Repository
	identity IdentityProvider // optional
}

func NewUserUsecase(repo userdom.Repository, identity IdentityProvider) *UserUsecase {
	return &UserUsecase{repo: repo, identity: identity}
}

// Queries

// GetByID returns ErrNotFound when absent.
func (u *UserUsecase) GetByID(ctx context.Context, id string) (*userdom.User, error) {
	uid := strings.TrimSpace(id)
	if uid == "" {
		return nil, invalidf("id is required")
	}
	v, err := u.repo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, classify(err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func (u *UserUsecase) GetByUsername(ctx context.Context, username string) (*userdom.User, error) {
	n := strings.TrimSpace(username)
	if n == "" {
		return nil, invalidf("username is required")
	}
	v, err := u.repo.GetUserByUsername(ctx, n)
	if err != nil {
		return nil, classify(err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// Commands

// Register creates the identity (when an IdP is configured) and then the profile.
// If storing the profile fails, the freshly created identity is deleted again.
func (u *UserUsecase) Register(ctx context.Context, in RegisterUserInput) (*userdom.User, error) {
	create := userdom.CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Username: trimPtr(in.Username),
	}
	if _, err := userdom.New("", create, timeNowUTC()); err != nil {
		return nil, invalid(err)
	}

	if err := u.ensureUnique(ctx, create); err != nil {
		return nil, err
	}

	if u.identity != nil {
		if len(in.Password) < 6 {
			return nil, invalidf("password must be at least 6 characters")
		}
		uid, err := u.identity.CreateIdentity(ctx, userdom.NormalizeEmail(in.Email), in.Password, strings.TrimSpace(in.Name))
		if err != nil {
			return nil, classify(err)
		}
		create.ID = uid
	}

	v, err := u.repo.CreateUser(ctx, create)
	if err != nil {
		if u.identity != nil && create.ID != "" {
			if derr := u.identity.DeleteIdentity(ctx, create.ID); derr != nil {
				log.Printf("[user] rollback identity failed uid=%s err=%v", create.ID, derr)
			}
		}
		return nil, classify(err)
	}

	log.Printf("[user] registered id=%s email=%s", v.ID, maskEmail(v.Email))
	return v, nil
}

func (u *UserUsecase) ensureUnique(ctx context.Context, in userdom.CreateUserInput) error {
	existing, err := u.repo.GetUserByEmail(ctx, userdom.NormalizeEmail(in.Email))
	if err != nil {
		return classify(err)
	}
	if existing != nil {
		return classify(userdom.ErrConflict)
	}
	if in.Username != nil {
		existing, err = u.repo.GetUserByUsername(ctx, *in.Username)
		if err != nil {
			return classify(err)
		}
		if existing != nil {
			return classify(userdom.ErrConflict)
		}
	}
	return nil
}
