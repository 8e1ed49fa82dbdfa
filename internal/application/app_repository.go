package application

import (
	"github.com/docker/docker/client"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/infra/appinfo"
	"visionatrix-exapp/internal/infra/occ"
	"visionatrix-exapp/pkg/log"
)

// NewAppInfoRepository reads the configured info.xml.
func NewAppInfoRepository(cfg *config.Config) repository.AppInfoRepository {
	return appinfo.NewRepository(cfg.App.InfoXML)
}

// NewAppAPIRepository returns the AppAPI repository driving occ the way the
// configuration asks for.
func NewAppAPIRepository(cfg *config.Config, dockerClient *client.Client, runner repository.CommandRunner) repository.AppAPIRepository {
	return occ.NewAppAPIRepository(newOCCRunner(cfg.OCC, dockerClient, runner))
}

func newOCCRunner(cfg config.OCCConfig, dockerClient *client.Client, runner repository.CommandRunner) repository.OCCRunner {
	switch cfg.Mode {
	case config.OCCModeLocal:
		return occ.NewLocalRunner(runner, cfg.PHP, cfg.Path)
	case config.OCCModeDocker:
		return occ.NewDockerExecRunner(dockerClient, cfg.Container, cfg.User, cfg.WorkDir)
	default:
		log.Warn("Unknown occ mode, defaulting to docker", "mode", cfg.Mode)
		return occ.NewDockerExecRunner(dockerClient, cfg.Container, cfg.User, cfg.WorkDir)
	}
}
