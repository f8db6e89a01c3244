package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/application/usecase"
	userdom "storefront/internal/domain/user"
)

type fakeIdP struct {
	created []string
	deleted []string
	err     error
}

func (f *fakeIdP) CreateIdentity(_ context.Context, email, _ string, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	uid := "uid-" + email
	f.created = append(f.created, uid)
	return uid, nil
}

func (f *fakeIdP) DeleteIdentity(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

// failingUsers stores nothing.
type failingUsers struct{ *memory.Store }

func (failingUsers) CreateUser(context.Context, userdom.CreateUserInput) (*userdom.User, error) {
	return nil, errors.New("write failed")
}

func strptr(s string) *string { return &s }

func TestUserUsecase_RegisterWithoutIdP(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewUserUsecase(memory.New(), nil)

	u, err := uc.Register(ctx, usecase.RegisterUserInput{Name: " Ada ", Email: "Ada@Example.com", Username: strptr("ada")})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)

	got, err := uc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	got, err = uc.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = uc.Register(ctx, usecase.RegisterUserInput{Name: "Other", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, usecase.ErrConflict)

	_, err = uc.Register(ctx, usecase.RegisterUserInput{Name: "Other", Email: "other@example.com", Username: strptr("ada")})
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestUserUsecase_RegisterWithIdP(t *testing.T) {
	ctx := context.Background()
	idp := &fakeIdP{}
	uc := usecase.NewUserUsecase(memory.New(), idp)

	_, err := uc.Register(ctx, usecase.RegisterUserInput{Name: "Ada", Email: "ada@example.com", Password: "123"})
	assert.ErrorIs(t, err, usecase.ErrValidation)
	assert.Empty(t, idp.created)

	u, err := uc.Register(ctx, usecase.RegisterUserInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "uid-ada@example.com", u.ID)
}

func TestUserUsecase_RegisterRollsBackIdentity(t *testing.T) {
	idp := &fakeIdP{}
	uc := usecase.NewUserUsecase(failingUsers{memory.New()}, idp)

	_, err := uc.Register(context.Background(), usecase.RegisterUserInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, idp.created, idp.deleted)
}

func TestUserUsecase_Validation(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewUserUsecase(memory.New(), nil)

	_, err := uc.Register(ctx, usecase.RegisterUserInput{Name: "", Email: "ada@example.com"})
	assert.ErrorIs(t, err, usecase.ErrValidation)
	_, err = uc.Register(ctx, usecase.RegisterUserInput{Name: "Ada", Email: "not-an-email"})
	assert.ErrorIs(t, err, usecase.ErrValidation)

	_, err = uc.GetByID(ctx, " ")
	assert.ErrorIs(t, err, usecase.ErrValidation)
	_, err = uc.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
