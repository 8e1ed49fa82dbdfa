package write_env

import (
	"context"
	"fmt"
	"strconv"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/env"
	"visionatrix-exapp/pkg/log"
)

// WriteEnvHandler handles WriteEnvCommand.
type WriteEnvHandler struct {
	config  *config.Config
	appInfo repository.AppInfoRepository
}

// NewWriteEnvHandler constructs a WriteEnvHandler.
func NewWriteEnvHandler(cfg *config.Config, appInfo repository.AppInfoRepository) *WriteEnvHandler {
	return &WriteEnvHandler{config: cfg, appInfo: appInfo}
}

// Handle executes the WriteEnvCommand.
func (h *WriteEnvHandler) Handle(_ context.Context, cmd WriteEnvCommand) error {
	path := cmd.Path
	if path == "" {
		path = h.config.EnvFile
	}

	vars, err := h.vars()
	if err != nil {
		return err
	}

	log.Info("Processing write env command", "path", path)
	if err := env.Save(path, vars); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("Env file written", "path", path, "variables", len(vars))
	return nil
}

func (h *WriteEnvHandler) vars() (map[string]string, error) {
	app := h.config.App
	version := app.Version
	if version == "" {
		info, err := h.appInfo.AppInfo()
		if err != nil {
			return nil, fmt.Errorf("failed to read app version: %w", err)
		}
		version = info.Version
		if version == "" {
			version = info.ImageTag
		}
	}

	return map[string]string{
		"APP_ID":           app.ID,
		"APP_DISPLAY_NAME": app.Name,
		"APP_SECRET":       app.Secret,
		"APP_VERSION":      version,
		"APP_HOST":         app.Host,
		"APP_PORT":         strconv.Itoa(app.Port),
		"NEXTCLOUD_URL":    h.config.Nextcloud.URL,
		"AA_VERSION":       h.config.Nextcloud.AAVersion,
	}, nil
}
