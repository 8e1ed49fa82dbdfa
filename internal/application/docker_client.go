package application

import (
	"fmt"

	"github.com/docker/docker/client"
)

// NewDockerClient connects to the daemon from the DOCKER_* environment.
// The connection is lazy; no request is made here.
func NewDockerClient() (*client.Client, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return dockerClient, nil
}
