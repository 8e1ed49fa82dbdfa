// Package ctl wires the exappctl repositories to the command and query buses.
package ctl

import (
	"context"
	"io"

	"github.com/docker/docker/client"

	"visionatrix-exapp/internal/application"
	"visionatrix-exapp/internal/application/command"
	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/application/query"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/cqrs"
	"visionatrix-exapp/pkg/log"
)

// Ctl dispatches exappctl operations.
type Ctl struct {
	Config   *config.Config
	Commands *cqrs.CommandBus
	Queries  *cqrs.QueryBus

	dockerClient *client.Client
}

// Repositories lets callers replace the infrastructure, otherwise everything
// is created from the configuration.
type Repositories struct {
	AppInfo  repository.AppInfoRepository
	Images   repository.ImageRepository
	Registry repository.RegistryRepository
	AppAPI   repository.AppAPIRepository
	Runner   repository.CommandRunner
}

// New creates a Ctl. Command output is streamed to out.
func New(ctx context.Context, cfg *config.Config, out io.Writer) (*Ctl, error) {
	dockerClient, err := application.NewDockerClient()
	if err != nil {
		return nil, err
	}

	runner := application.NewCommandRunner(out)
	repos := Repositories{
		AppInfo:  application.NewAppInfoRepository(cfg),
		Images:   application.NewImageRepository(dockerClient, runner, out),
		Registry: application.NewRegistryRepository(cfg),
		AppAPI:   application.NewAppAPIRepository(cfg, dockerClient, runner),
		Runner:   runner,
	}

	c, err := NewWithRepositories(ctx, cfg, repos)
	if err != nil {
		dockerClient.Close()
		return nil, err
	}
	c.dockerClient = dockerClient
	return c, nil
}

// NewWithRepositories creates a Ctl on top of repos.
func NewWithRepositories(ctx context.Context, cfg *config.Config, repos Repositories) (*Ctl, error) {
	commandBus := cqrs.NewCommandBus(ctx)
	if err := command.RegisterCommandHandlers(commandBus, cfg, repos.AppInfo, repos.Images, repos.Registry, repos.AppAPI, repos.Runner); err != nil {
		return nil, err
	}

	queryBus := cqrs.NewQueryBus(ctx)
	if err := query.RegisterQueryHandlers(queryBus, cfg, repos.AppInfo, repos.Registry); err != nil {
		return nil, err
	}

	return &Ctl{Config: cfg, Commands: commandBus, Queries: queryBus}, nil
}

// Close waits for running handlers and releases the docker client.
func (c *Ctl) Close() {
	c.Commands.Shutdown()
	c.Queries.Shutdown()
	c.Commands.WaitForCompletion()
	c.Queries.WaitForCompletion()
	if c.dockerClient != nil {
		if err := c.dockerClient.Close(); err != nil {
			log.Debug("failed to close docker client", "error", err)
		}
	}
}
