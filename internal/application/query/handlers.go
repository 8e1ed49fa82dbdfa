package query

import (
	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/application/query/get_app_info"
	"visionatrix-exapp/internal/application/query/get_image_ref"
	"visionatrix-exapp/internal/application/query/get_image_tag"
	"visionatrix-exapp/internal/application/query/get_registries"
	"visionatrix-exapp/internal/domain/dto"
	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/cqrs"
	"visionatrix-exapp/pkg/log"
)

func RegisterQueryHandlers(b *cqrs.QueryBus, cfg *config.Config, appInfo repository.AppInfoRepository, registry repository.RegistryRepository) error {
	if err := cqrs.RegisterQuery[get_image_tag.GetImageTagQuery, string](b, get_image_tag.NewGetImageTagQueryHandler(appInfo)); err != nil {
		return log.Errorf("failed to register get image tag query handler: %w", err)
	}

	if err := cqrs.RegisterQuery[get_app_info.GetAppInfoQuery, *model.AppInfo](b, get_app_info.NewGetAppInfoQueryHandler(appInfo)); err != nil {
		return log.Errorf("failed to register get app info query handler: %w", err)
	}

	if err := cqrs.RegisterQuery[get_image_ref.GetImageRefQuery, model.ImageReference](b, get_image_ref.NewGetImageRefQueryHandler(appInfo, cfg.Image)); err != nil {
		return log.Errorf("failed to register get image ref query handler: %w", err)
	}

	if err := cqrs.RegisterQuery[get_registries.GetRegistriesQuery, *dto.GetRegistriesResult](b, get_registries.NewGetRegistriesQueryHandler(registry)); err != nil {
		return log.Errorf("failed to register get registries query handler: %w", err)
	}

	return nil
}
