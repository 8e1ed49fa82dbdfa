package get_image_ref

import (
	"context"
	"fmt"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
)

// GetImageRefQueryHandler handles the GetImageRefQuery.
type GetImageRefQueryHandler struct {
	appInfo repository.AppInfoRepository
	image   config.ImageConfig
}

// NewGetImageRefQueryHandler creates a new GetImageRefQueryHandler.
func NewGetImageRefQueryHandler(appInfo repository.AppInfoRepository, image config.ImageConfig) *GetImageRefQueryHandler {
	return &GetImageRefQueryHandler{appInfo: appInfo, image: image}
}

// Handle builds the image reference.
func (h *GetImageRefQueryHandler) Handle(_ context.Context, q GetImageRefQuery) (model.ImageReference, error) {
	version := q.Version
	if version == "" {
		tag, err := h.appInfo.ImageTag()
		if err != nil {
			return model.ImageReference{}, fmt.Errorf("failed to read image tag: %w", err)
		}
		version = tag
	}
	return model.NewImageReference(h.image.Registry, h.image.Org, h.image.Name, q.BuildType, version)
}
