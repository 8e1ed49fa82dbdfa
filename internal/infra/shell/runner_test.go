//go:build !windows

package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutput(t *testing.T) {
	r := NewRunner()
	res, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello; echo oops >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "hello")
	assert.Contains(t, res.Output, "oops")
}

func TestRunReportsExitCode(t *testing.T) {
	r := NewRunner()
	res, err := r.Run(context.Background(), "", "sh", "-c", "echo not registered; exit 3")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, exitErr.Error(), "not registered")
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(context.Background(), "", "definitely-not-a-real-binary-xyz")
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestStreamingRunnerCopiesOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewStreamingRunner(&buf)
	_, err := r.Run(context.Background(), "", "sh", "-c", "echo streamed")
	require.NoError(t, err)
	assert.Equal(t, "streamed\n", buf.String())
}

func TestRunWithInputFeedsStdin(t *testing.T) {
	r := NewInputRunner()
	res, err := r.RunWithInput(context.Background(), strings.NewReader("s3cret"), "", "sh", "-c", "read -r v; echo got:$v")
	require.NoError(t, err)
	assert.Equal(t, "got:s3cret\n", res.Output)
}
