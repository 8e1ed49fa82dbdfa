package dto

import "visionatrix-exapp/internal/domain/model"

// GetRegistriesResult lists the registries the docker CLI has credentials for.
type GetRegistriesResult struct {
	Registries []model.Registry
}
