package register_app

import (
	"context"
	"errors"
	"fmt"

	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// RegisterAppHandler handles RegisterAppCommand.
type RegisterAppHandler struct {
	appAPI repository.AppAPIRepository
}

// NewRegisterAppHandler constructs a RegisterAppHandler.
func NewRegisterAppHandler(appAPI repository.AppAPIRepository) *RegisterAppHandler {
	return &RegisterAppHandler{appAPI: appAPI}
}

// Handle unregisters the application and registers it again. A failed
// unregister is expected on the first run and only logged.
func (h *RegisterAppHandler) Handle(ctx context.Context, cmd RegisterAppCommand) error {
	d := cmd.Descriptor
	if d == nil {
		return errors.New("app descriptor is required")
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return err
	}

	log.Info("Processing register app command", "app_id", d.ID, "daemon", d.DaemonConfigName, "version", d.Version)

	if err := h.appAPI.Unregister(ctx, d.ID); err != nil {
		log.Warn("Unregister failed, continuing with registration", "app_id", d.ID, "error", err)
	}

	if err := h.appAPI.Register(ctx, d.ID, d.DaemonConfigName, d); err != nil {
		return fmt.Errorf("failed to register app %s: %w", d.ID, err)
	}

	log.Info("App registered successfully", "app_id", d.ID)
	return nil
}
