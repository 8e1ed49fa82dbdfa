package run_app

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// RunAppHandler handles RunAppCommand.
type RunAppHandler struct {
	appAPI repository.AppAPIRepository
}

// NewRunAppHandler constructs a RunAppHandler.
func NewRunAppHandler(appAPI repository.AppAPIRepository) *RunAppHandler {
	return &RunAppHandler{appAPI: appAPI}
}

// Handle executes the RunAppCommand.
func (h *RunAppHandler) Handle(ctx context.Context, cmd RunAppCommand) error {
	if cmd.ID == "" || cmd.Daemon == "" {
		return log.Errorf("app id and daemon are required")
	}

	log.Info("Processing run app command", "app_id", cmd.ID, "daemon", cmd.Daemon)
	if err := h.appAPI.Unregister(ctx, cmd.ID); err != nil {
		log.Warn("Unregister failed, continuing with registration", "app_id", cmd.ID, "error", err)
	}

	if err := h.appAPI.Register(ctx, cmd.ID, cmd.Daemon, nil); err != nil {
		return fmt.Errorf("failed to register app %s: %w", cmd.ID, err)
	}

	log.Info("App deployed from app store", "app_id", cmd.ID)
	return nil
}
