package occ

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/backoff"
	"visionatrix-exapp/pkg/log"
)

// DefaultUser is the account occ must run as inside the Nextcloud container.
const DefaultUser = "www-data"

// errStillRunning is reported while the exec process has not exited yet.
var errStillRunning = errors.New("occ is still running")

// execAPI is the part of the docker SDK client used to run occ.
type execAPI interface {
	ContainerExecCreate(ctx context.Context, container string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
}

// dockerExecRunner runs `sudo -u www-data php occ ...` inside the Nextcloud
// container, which is how AppAPI development setups are driven.
type dockerExecRunner struct {
	api       execAPI
	container string
	user      string
	workDir   string
	poll      *backoff.Backoff
}

var _ repository.OCCRunner = (*dockerExecRunner)(nil)

// NewDockerExecRunner creates a runner for the given container. An empty
// user means DefaultUser. workDir is the Nextcloud root inside the container
// and may be empty when occ is found from the image's working directory.
func NewDockerExecRunner(api execAPI, containerName, user, workDir string) repository.OCCRunner {
	if user == "" {
		user = DefaultUser
	}
	return &dockerExecRunner{
		api:       api,
		container: containerName,
		user:      user,
		workDir:   workDir,
		poll:      backoff.New(50*time.Millisecond, time.Second),
	}
}

func (r *dockerExecRunner) command(args []string) []string {
	return append([]string{"sudo", "-u", r.user, "php", "occ"}, args...)
}

func (r *dockerExecRunner) Run(ctx context.Context, args ...string) (model.ExecResult, error) {
	cmd := r.command(args)
	log.Debug("[OCC] exec", "container", r.container, "command", strings.Join(cmd, " "))

	created, err := r.api.ContainerExecCreate(ctx, r.container, container.ExecOptions{
		Cmd:          cmd,
		WorkingDir:   r.workDir,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return model.ExecResult{}, fmt.Errorf("failed to create exec in %s: %w", r.container, err)
	}

	attached, err := r.api.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return model.ExecResult{}, fmt.Errorf("failed to attach to exec in %s: %w", r.container, err)
	}
	defer attached.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attached.Reader); err != nil {
		return model.ExecResult{}, fmt.Errorf("failed to read occ output: %w", err)
	}
	output := stdout.String() + stderr.String()

	var inspect container.ExecInspect
	r.poll.Reset()
	err = r.poll.Until(ctx, 20, func(ctx context.Context) error {
		var err error
		inspect, err = r.api.ContainerExecInspect(ctx, created.ID)
		if err != nil {
			return err
		}
		if inspect.Running {
			return errStillRunning
		}
		return nil
	})
	if err != nil {
		return model.ExecResult{Output: output}, fmt.Errorf("failed to inspect exec in %s: %w", r.container, err)
	}

	res := model.ExecResult{ExitCode: inspect.ExitCode, Output: output}
	if res.ExitCode != 0 {
		return res, &ExitError{Args: args, Code: res.ExitCode, Output: output}
	}
	return res, nil
}
