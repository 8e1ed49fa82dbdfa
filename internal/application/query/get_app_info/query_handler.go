package get_app_info

import (
	"context"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
)

// GetAppInfoQueryHandler handles the GetAppInfoQuery.
type GetAppInfoQueryHandler struct {
	repository repository.AppInfoRepository
}

// NewGetAppInfoQueryHandler creates a new GetAppInfoQueryHandler.
func NewGetAppInfoQueryHandler(repo repository.AppInfoRepository) *GetAppInfoQueryHandler {
	return &GetAppInfoQueryHandler{repository: repo}
}

func (h *GetAppInfoQueryHandler) Handle(_ context.Context, _ GetAppInfoQuery) (*model.AppInfo, error) {
	return h.repository.AppInfo()
}
