package occ

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/infra/shell"
)

// ExitError is returned when occ ran but exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("occ %s exited with code %d", strings.Join(e.Args, " "), e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// localRunner runs occ with the host php binary.
type localRunner struct {
	runner repository.CommandRunner
	php    string
	occ    string
}

var _ repository.OCCRunner = (*localRunner)(nil)

// NewLocalRunner runs `<php> <occPath> ...`. php defaults to "php".
func NewLocalRunner(runner repository.CommandRunner, php, occPath string) repository.OCCRunner {
	if php == "" {
		php = "php"
	}
	return &localRunner{runner: runner, php: php, occ: occPath}
}

func (r *localRunner) Run(ctx context.Context, args ...string) (model.ExecResult, error) {
	res, err := r.runner.Run(ctx, "", r.php, append([]string{r.occ}, args...)...)
	if err == nil {
		return res, nil
	}

	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{Args: args, Code: exitErr.Code, Output: exitErr.Output}
	}
	return res, fmt.Errorf("failed to run occ: %w", err)
}
