// backend/internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	userdom "storefront/internal/domain/user"
)

// =====================================================
// Firestore User Repository
// =====================================================
//
// IMPORTANT:
// - users コレクションの DocID は user.ID（Firebase Auth 連携時は UID）に統一する。
// - email / username の一意性は CreateUser のトランザクション内で検査する。
// =====================================================

type UserRepositoryFS struct {
	base
	now func() time.Time
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{
		base: base{Client: client, Timeout: DefaultOpTimeout},
		now:  time.Now,
	}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(colUsers)
}

// GetUserByID returns (nil, nil) if not found.
func (r *UserRepositoryFS) GetUserByID(ctx context.Context, id string) (*userdom.User, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetUserByID")
	if err != nil {
		return nil, err
	}
	defer cancel()

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapErr("GetUserByID", err)
	}
	u, err := docToUser(snap)
	if err != nil {
		return nil, mapErr("GetUserByID", err)
	}
	return &u, nil
}

func (r *UserRepositoryFS) GetUserByUsername(ctx context.Context, username string) (*userdom.User, error) {
	return r.findOne(ctx, "GetUserByUsername", "username", strings.TrimSpace(username))
}

func (r *UserRepositoryFS) GetUserByEmail(ctx context.Context, email string) (*userdom.User, error) {
	return r.findOne(ctx, "GetUserByEmail", "email", userdom.NormalizeEmail(email))
}

func (r *UserRepositoryFS) findOne(ctx context.Context, op, field, value string) (*userdom.User, error) {
	if value == "" {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, op)
	if err != nil {
		return nil, err
	}
	defer cancel()

	it := r.col().Where(field, "==", value).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(op, err)
	}
	u, err := docToUser(snap)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return &u, nil
}

// CreateUser returns userdom.ErrConflict when id, email or username is taken.
func (r *UserRepositoryFS) CreateUser(ctx context.Context, in userdom.CreateUserInput) (*userdom.User, error) {
	ctx, cancel, err := r.begin(ctx, "CreateUser")
	if err != nil {
		return nil, err
	}
	defer cancel()

	u, err := userdom.New(in.ID, in, r.now())
	if err != nil {
		return nil, err
	}
	ref := r.col().NewDoc()
	if u.ID != "" {
		ref = r.col().Doc(u.ID)
	}
	u.ID = ref.ID

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		dup, err := tx.Documents(r.col().Where("email", "==", u.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(dup) > 0 {
			return userdom.ErrConflict
		}
		if u.Username != nil {
			dup, err = tx.Documents(r.col().Where("username", "==", *u.Username).Limit(1)).GetAll()
			if err != nil {
				return err
			}
			if len(dup) > 0 {
				return userdom.ErrConflict
			}
		}
		if _, err := tx.Get(ref); err == nil {
			return userdom.ErrConflict
		} else if !isNotFound(err) {
			return err
		}
		return tx.Create(ref, userDocFromDomain(u))
	})
	if err != nil {
		if errors.Is(err, userdom.ErrConflict) {
			return nil, err
		}
		return nil, mapErr("CreateUser", err)
	}
	return &u, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type userDoc struct {
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Username  *string   `firestore:"username"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func userDocFromDomain(u userdom.User) userDoc {
	return userDoc{
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func docToUser(snap *firestore.DocumentSnapshot) (userdom.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return userdom.User{}, err
	}
	return userdom.User{
		ID:        snap.Ref.ID,
		Name:      strings.TrimSpace(d.Name),
		Email:     userdom.NormalizeEmail(d.Email),
		Username:  trimPtr(d.Username),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}
