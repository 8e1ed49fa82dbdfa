package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command string
	Args    []string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s %s exited with code %d", e.Command, strings.Join(e.Args, " "), e.Code)
	}
	return fmt.Sprintf("%s %s exited with code %d: %s", e.Command, strings.Join(e.Args, " "), e.Code, out)
}

// execRunner runs host binaries with os/exec.
type execRunner struct {
	// Stream receives the combined output as it is produced when set.
	stream io.Writer
}

var (
	_ repository.CommandRunner = (*execRunner)(nil)
	_ repository.InputRunner   = (*execRunner)(nil)
)

// NewRunner returns a runner that captures output.
func NewRunner() repository.CommandRunner {
	return &execRunner{}
}

// NewInputRunner returns a capturing runner that can feed stdin.
func NewInputRunner() repository.InputRunner {
	return &execRunner{}
}

// NewStreamingRunner returns a runner that also copies output to w.
func NewStreamingRunner(w io.Writer) repository.CommandRunner {
	return &execRunner{stream: w}
}

func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) (model.ExecResult, error) {
	return r.run(ctx, nil, dir, name, args)
}

// RunWithInput runs name with stdin connected to the given reader.
func (r *execRunner) RunWithInput(ctx context.Context, stdin io.Reader, dir, name string, args ...string) (model.ExecResult, error) {
	return r.run(ctx, stdin, dir, name, args)
}

func (r *execRunner) run(ctx context.Context, stdin io.Reader, dir, name string, args []string) (model.ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin

	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.stream != nil {
		out = io.MultiWriter(&buf, r.stream)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	log.Debug("running command", "dir", dir, "command", name, "args", args)
	err := cmd.Run()
	res := model.ExecResult{Output: buf.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		log.Debug("command failed", "command", name, "args", args, "exit_code", res.ExitCode, "output", res.Output)
		return res, &ExitError{Command: name, Args: args, Code: res.ExitCode, Output: res.Output}
	}
	return res, fmt.Errorf("failed to run %s: %w", name, err)
}
