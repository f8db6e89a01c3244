// backend/internal/platform/di/mall/secret_provider_sm.go
package mall

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

var errSecretProviderNotConfigured = errors.New("di.mall: adminKeyProviderSM not configured")

// secretAccessor is satisfied by *secretmanager.Client.
type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// adminKeyProviderSM reads the admin API key from Secret Manager.
// secretID は短い名前 ("storefront-admin-key") でも完全名 ("projects/.../secrets/...") でもよい。
type adminKeyProviderSM struct {
	sm        secretAccessor
	projectID string
	secretID  string
	version   string
}

func (p *adminKeyProviderSM) AdminKey(ctx context.Context) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	name, err := p.versionName()
	if err != nil {
		return "", err
	}

	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("adminKeyProviderSM: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("adminKeyProviderSM: empty payload (%s)", name)
	}

	key := strings.TrimSpace(string(resp.Payload.Data))
	if key == "" {
		return "", fmt.Errorf("adminKeyProviderSM: blank secret (%s)", name)
	}
	return key, nil
}

func (p *adminKeyProviderSM) versionName() (string, error) {
	sid := strings.TrimSpace(p.secretID)
	if sid == "" {
		return "", errors.New("adminKeyProviderSM: secretID is empty")
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	if strings.HasPrefix(sid, "projects/") {
		if strings.Contains(sid, "/versions/") {
			return sid, nil
		}
		return sid + "/versions/" + ver, nil
	}

	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("adminKeyProviderSM: projectID is empty")
	}
	return "projects/" + prj + "/secrets/" + sid + "/versions/" + ver, nil
}
