package get_registries

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/domain/dto"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// GetRegistriesQueryHandler handles the GetRegistriesQuery.
type GetRegistriesQueryHandler struct {
	repository repository.RegistryRepository
}

// Handle executes the GetRegistriesQuery and returns the list of registries.
func (h *GetRegistriesQueryHandler) Handle(_ context.Context, _ GetRegistriesQuery) (*dto.GetRegistriesResult, error) {
	log.Debug("Processing get registries query")

	registries, err := h.repository.GetRegistries()
	if err != nil {
		log.Error("Error getting registries", "error", err)
		return nil, fmt.Errorf("failed to get registries: %w", err)
	}

	log.Debug("Retrieved registries", "count", len(registries))
	return &dto.GetRegistriesResult{Registries: registries}, nil
}

// NewGetRegistriesQueryHandler creates a new GetRegistriesQueryHandler.
func NewGetRegistriesQueryHandler(repo repository.RegistryRepository) *GetRegistriesQueryHandler {
	return &GetRegistriesQueryHandler{repository: repo}
}
