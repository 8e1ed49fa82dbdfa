package convert_to_locale

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/internal/domain/service/l10n"
	"visionatrix-exapp/pkg/log"
)

// ConvertToLocaleHandler handles ConvertToLocaleCommand.
type ConvertToLocaleHandler struct {
	runner repository.CommandRunner
	config config.TranslationsConfig
}

// NewConvertToLocaleHandler constructs the handler.
func NewConvertToLocaleHandler(runner repository.CommandRunner, cfg config.TranslationsConfig) *ConvertToLocaleHandler {
	return &ConvertToLocaleHandler{runner: runner, config: cfg}
}

// Handle runs msgfmt for every catalog. It stops at the first failure.
func (h *ConvertToLocaleHandler) Handle(ctx context.Context, _ ConvertToLocaleCommand) error {
	log.Info("Processing convert to locale command", "source", h.config.SourceDir, "target", h.config.LocaleDir)

	catalogs, err := l10n.Catalogs(h.config.SourceDir, h.config.LocaleDir)
	if err != nil {
		return fmt.Errorf("failed to list translations: %w", err)
	}

	for _, c := range catalogs {
		if err := os.MkdirAll(filepath.Dir(c.Target), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(c.Target), err)
		}
		if _, err := h.runner.Run(ctx, "", "msgfmt", "--output-file="+c.Target, c.Source); err != nil {
			return fmt.Errorf("failed to compile %s: %w", c.Source, err)
		}
		log.Debug("Compiled catalog", "lang", c.Lang, "target", c.Target)
	}

	log.Info("Translations compiled", "catalogs", len(catalogs))
	return nil
}
