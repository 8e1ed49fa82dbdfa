package application

import (
	"io"

	"github.com/docker/docker/client"

	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/infra/docker/image"
	"visionatrix-exapp/internal/infra/shell"
)

// NewCommandRunner returns a runner streaming command output to out. A nil
// out only captures.
func NewCommandRunner(out io.Writer) repository.CommandRunner {
	if out == nil {
		return shell.NewRunner()
	}
	return shell.NewStreamingRunner(out)
}

// NewImageRepository builds through dockerClient and buildx via runner.
func NewImageRepository(dockerClient *client.Client, runner repository.CommandRunner, out io.Writer) repository.ImageRepository {
	return image.NewDockerImageRepository(dockerClient, runner, out)
}
