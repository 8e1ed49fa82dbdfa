package login_registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionatrix-exapp/internal/domain/model"
)

type fakeRegistry struct {
	creds    model.RegistryCredentials
	loggedIn []model.RegistryCredentials
}

func (f *fakeRegistry) GetRegistries() ([]model.Registry, error) { return nil, nil }

func (f *fakeRegistry) Credentials(address string) (model.RegistryCredentials, error) {
	c := f.creds
	c.Address = address
	return c, nil
}

func (f *fakeRegistry) Login(_ context.Context, creds model.RegistryCredentials) error {
	f.loggedIn = append(f.loggedIn, creds)
	return nil
}

func TestLoginUsesResolvedCredentials(t *testing.T) {
	repo := &fakeRegistry{creds: model.RegistryCredentials{Username: "bot", Password: "token"}}
	require.NoError(t, NewLoginRegistryHandler(repo).Handle(context.Background(), LoginRegistryCommand{Address: "ghcr.io"}))
	assert.Equal(t, []model.RegistryCredentials{{Address: "ghcr.io", Username: "bot", Password: "token"}}, repo.loggedIn)
}

func TestLoginRequiresAddress(t *testing.T) {
	repo := &fakeRegistry{}
	assert.Error(t, NewLoginRegistryHandler(repo).Handle(context.Background(), LoginRegistryCommand{}))
	assert.Empty(t, repo.loggedIn)
}
