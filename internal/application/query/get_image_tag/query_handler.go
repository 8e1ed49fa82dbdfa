package get_image_tag

import (
	"context"

	"visionatrix-exapp/internal/domain/repository"
)

// GetImageTagQueryHandler handles the GetImageTagQuery.
type GetImageTagQueryHandler struct {
	repository repository.AppInfoRepository
}

// NewGetImageTagQueryHandler creates a new GetImageTagQueryHandler.
func NewGetImageTagQueryHandler(repo repository.AppInfoRepository) *GetImageTagQueryHandler {
	return &GetImageTagQueryHandler{repository: repo}
}

// Handle returns the image-tag element text.
func (h *GetImageTagQueryHandler) Handle(_ context.Context, _ GetImageTagQuery) (string, error) {
	return h.repository.ImageTag()
}
