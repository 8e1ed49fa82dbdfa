package convert_to_locale

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/model"
)

type recordingRunner struct {
	calls [][]string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, _ string, name string, args ...string) (model.ExecResult, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return model.ExecResult{}, r.err
}

func translations(t *testing.T) config.TranslationsConfig {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "translationfiles")
	for _, f := range []string{"templates/visionatrix.pot", "de/visionatrix.po", "uk/visionatrix.po"} {
		path := filepath.Join(src, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	return config.TranslationsConfig{SourceDir: src, LocaleDir: filepath.Join(root, "locale")}
}

func TestConvertToLocale(t *testing.T) {
	cfg := translations(t)
	runner := &recordingRunner{}

	require.NoError(t, NewConvertToLocaleHandler(runner, cfg).Handle(context.Background(), ConvertToLocaleCommand{}))
	require.Len(t, runner.calls, 2)

	deTarget := filepath.Join(cfg.LocaleDir, "de", "LC_MESSAGES", "visionatrix.mo")
	assert.Equal(t, []string{"msgfmt", "--output-file=" + deTarget, filepath.Join(cfg.SourceDir, "de", "visionatrix.po")}, runner.calls[0])
	assert.DirExists(t, filepath.Dir(deTarget))
	assert.DirExists(t, filepath.Join(cfg.LocaleDir, "uk", "LC_MESSAGES"))
	assert.NoDirExists(t, filepath.Join(cfg.LocaleDir, "templates"))
}

func TestConvertToLocaleMissingSource(t *testing.T) {
	cfg := config.TranslationsConfig{SourceDir: filepath.Join(t.TempDir(), "missing"), LocaleDir: t.TempDir()}
	err := NewConvertToLocaleHandler(&recordingRunner{}, cfg).Handle(context.Background(), ConvertToLocaleCommand{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertToLocaleStopsOnFailure(t *testing.T) {
	runner := &recordingRunner{err: errors.New("msgfmt: syntax error")}
	err := NewConvertToLocaleHandler(runner, translations(t)).Handle(context.Background(), ConvertToLocaleCommand{})
	assert.ErrorContains(t, err, "syntax error")
	assert.Len(t, runner.calls, 1)
}
