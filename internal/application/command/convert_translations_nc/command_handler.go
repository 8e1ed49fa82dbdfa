package convert_translations_nc

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/domain/service/l10n"
	"visionatrix-exapp/pkg/log"
)

// ConvertTranslationsNCHandler handles ConvertTranslationsNCCommand.
type ConvertTranslationsNCHandler struct {
	runner repository.CommandRunner
	config config.TranslationsConfig
	appDir string
}

// NewConvertTranslationsNCHandler constructs the handler.
func NewConvertTranslationsNCHandler(runner repository.CommandRunner, cfg config.TranslationsConfig, appDir string) *ConvertTranslationsNCHandler {
	return &ConvertTranslationsNCHandler{runner: runner, config: cfg, appDir: appDir}
}

// Handle executes the ConvertTranslationsNCCommand.
func (h *ConvertTranslationsNCHandler) Handle(ctx context.Context, _ ConvertTranslationsNCCommand) error {
	log.Info("Processing convert translations command", "dir", h.appDir)
	name, args := l10n.ToolCommand(h.config.Tool, "convert-po-files")
	if _, err := h.runner.Run(ctx, h.appDir, name, args...); err != nil {
		return fmt.Errorf("failed to convert translations: %w", err)
	}
	return nil
}
