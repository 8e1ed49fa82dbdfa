package create_translation_templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/model"
)

type recordingRunner struct {
	dir  string
	name string
	args []string
}

func (r *recordingRunner) Run(_ context.Context, dir, name string, args ...string) (model.ExecResult, error) {
	r.dir, r.name, r.args = dir, name, args
	return model.ExecResult{}, nil
}

func TestCreateTranslationTemplates(t *testing.T) {
	runner := &recordingRunner{}
	h := NewCreateTranslationTemplatesHandler(runner, config.TranslationsConfig{Tool: "/opt/translationtool"}, ".")

	require.NoError(t, h.Handle(context.Background(), CreateTranslationTemplatesCommand{}))
	assert.Equal(t, ".", runner.dir)
	assert.Equal(t, "/opt/translationtool", runner.name)
	assert.Equal(t, []string{"create-pot-files"}, runner.args)
}
