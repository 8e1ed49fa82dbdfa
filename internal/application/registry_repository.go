package application

import (
	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/infra/docker/registry"
	"visionatrix-exapp/internal/infra/shell"
)

// NewRegistryRepository resolves credentials from cfg and the docker CLI
// configuration. Login output is captured, not streamed.
func NewRegistryRepository(cfg *config.Config) repository.RegistryRepository {
	return registry.NewDockerRegistryRepository(model.RegistryCredentials{
		Address:  cfg.Image.Registry,
		Username: cfg.Registry.Username,
		Password: cfg.Registry.Token,
	}, shell.NewInputRunner())
}
