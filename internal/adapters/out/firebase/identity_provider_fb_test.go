package firebase

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	created  []*fbauth.UserToCreate
	deleted  []string
	uid      string
	createEr error
	deleteEr error
}

func (f *fakeAuth) CreateUser(_ context.Context, u *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	f.created = append(f.created, u)
	if f.createEr != nil {
		return nil, f.createEr
	}
	return &fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: f.uid}}, nil
}

func (f *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return f.deleteEr
}

func TestIdentityProviderFB_CreateIdentity(t *testing.T) {
	fa := &fakeAuth{uid: "uid-123"}
	p := &IdentityProviderFB{Auth: fa}

	uid, err := p.CreateIdentity(context.Background(), " ada@example.com ", "secret1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", uid)
	assert.Len(t, fa.created, 1)
}

func TestIdentityProviderFB_CreateIdentityError(t *testing.T) {
	fa := &fakeAuth{createEr: errors.New("boom")}
	p := &IdentityProviderFB{Auth: fa}

	_, err := p.CreateIdentity(context.Background(), "ada@example.com", "secret1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestIdentityProviderFB_DeleteIdentity(t *testing.T) {
	fa := &fakeAuth{}
	p := &IdentityProviderFB{Auth: fa}

	require.NoError(t, p.DeleteIdentity(context.Background(), "  "))
	assert.Empty(t, fa.deleted)

	require.NoError(t, p.DeleteIdentity(context.Background(), "uid-1"))
	assert.Equal(t, []string{"uid-1"}, fa.deleted)
}

func TestIdentityProviderFB_NilClient(t *testing.T) {
	assert.Nil(t, NewIdentityProviderFB(nil))

	var p *IdentityProviderFB
	_, err := p.CreateIdentity(context.Background(), "a@b.co", "secret1", "")
	assert.Error(t, err)
}
