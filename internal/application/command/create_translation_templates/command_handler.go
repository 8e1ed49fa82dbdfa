package create_translation_templates

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/domain/service/l10n"
	"visionatrix-exapp/pkg/log"
)

// CreateTranslationTemplatesHandler handles CreateTranslationTemplatesCommand.
type CreateTranslationTemplatesHandler struct {
	runner repository.CommandRunner
	config config.TranslationsConfig
	appDir string
}

// NewCreateTranslationTemplatesHandler constructs the handler. The tool runs
// in appDir.
func NewCreateTranslationTemplatesHandler(runner repository.CommandRunner, cfg config.TranslationsConfig, appDir string) *CreateTranslationTemplatesHandler {
	return &CreateTranslationTemplatesHandler{runner: runner, config: cfg, appDir: appDir}
}

// Handle executes the CreateTranslationTemplatesCommand.
func (h *CreateTranslationTemplatesHandler) Handle(ctx context.Context, _ CreateTranslationTemplatesCommand) error {
	log.Info("Processing create translation templates command", "dir", h.appDir)
	name, args := l10n.ToolCommand(h.config.Tool, "create-pot-files")
	if _, err := h.runner.Run(ctx, h.appDir, name, args...); err != nil {
		return fmt.Errorf("failed to create translation templates: %w", err)
	}
	return nil
}
