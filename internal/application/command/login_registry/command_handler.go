package login_registry

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// LoginRegistryHandler handles LoginRegistryCommand.
type LoginRegistryHandler struct {
	repository repository.RegistryRepository
}

// NewLoginRegistryHandler constructs a LoginRegistryHandler.
func NewLoginRegistryHandler(repo repository.RegistryRepository) *LoginRegistryHandler {
	return &LoginRegistryHandler{repository: repo}
}

// Handle executes the LoginRegistryCommand.
func (h *LoginRegistryHandler) Handle(ctx context.Context, cmd LoginRegistryCommand) error {
	if cmd.Address == "" {
		return log.Errorf("registry address is required")
	}

	log.Info("Processing login registry command", "address", cmd.Address)
	creds, err := h.repository.Credentials(cmd.Address)
	if err != nil {
		return fmt.Errorf("failed to resolve registry credentials: %w", err)
	}
	if err := h.repository.Login(ctx, creds); err != nil {
		return fmt.Errorf("failed to login to %s: %w", cmd.Address, err)
	}
	return nil
}
