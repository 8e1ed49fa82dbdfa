package unregister_app

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// UnregisterAppHandler handles UnregisterAppCommand.
type UnregisterAppHandler struct {
	appAPI repository.AppAPIRepository
}

// NewUnregisterAppHandler constructs an UnregisterAppHandler.
func NewUnregisterAppHandler(appAPI repository.AppAPIRepository) *UnregisterAppHandler {
	return &UnregisterAppHandler{appAPI: appAPI}
}

// Handle executes the UnregisterAppCommand.
func (h *UnregisterAppHandler) Handle(ctx context.Context, cmd UnregisterAppCommand) error {
	if cmd.ID == "" {
		return log.Errorf("app id is required")
	}

	log.Info("Processing unregister app command", "app_id", cmd.ID)
	if err := h.appAPI.Unregister(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to unregister app %s: %w", cmd.ID, err)
	}

	log.Info("App unregistered successfully", "app_id", cmd.ID)
	return nil
}
