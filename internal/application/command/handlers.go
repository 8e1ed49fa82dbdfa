package command

import (
	"visionatrix-exapp/internal/application/command/convert_to_locale"
	"visionatrix-exapp/internal/application/command/convert_translations_nc"
	"visionatrix-exapp/internal/application/command/create_translation_templates"
	"visionatrix-exapp/internal/application/command/login_registry"
	"visionatrix-exapp/internal/application/command/publish_image"
	"visionatrix-exapp/internal/application/command/register_app"
	"visionatrix-exapp/internal/application/command/run_app"
	"visionatrix-exapp/internal/application/command/unregister_app"
	"visionatrix-exapp/internal/application/command/write_env"
	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/cqrs"
	"visionatrix-exapp/pkg/log"
)

func RegisterCommandHandlers(
	b *cqrs.CommandBus,
	cfg *config.Config,
	appInfo repository.AppInfoRepository,
	images repository.ImageRepository,
	registry repository.RegistryRepository,
	appAPI repository.AppAPIRepository,
	runner repository.CommandRunner,
) error {
	if err := cqrs.RegisterCommand[publish_image.PublishImageCommand](b, publish_image.NewPublishImageHandler(appInfo, images, registry, cfg.Image, config.RepositoryOwner())); err != nil {
		return log.Errorf("failed to register publish image handler: %w", err)
	}

	if err := cqrs.RegisterCommand[login_registry.LoginRegistryCommand](b, login_registry.NewLoginRegistryHandler(registry)); err != nil {
		return log.Errorf("failed to register login registry handler: %w", err)
	}

	if err := cqrs.RegisterCommand[register_app.RegisterAppCommand](b, register_app.NewRegisterAppHandler(appAPI)); err != nil {
		return log.Errorf("failed to register register app handler: %w", err)
	}

	if err := cqrs.RegisterCommand[unregister_app.UnregisterAppCommand](b, unregister_app.NewUnregisterAppHandler(appAPI)); err != nil {
		return log.Errorf("failed to register unregister app handler: %w", err)
	}

	if err := cqrs.RegisterCommand[run_app.RunAppCommand](b, run_app.NewRunAppHandler(appAPI)); err != nil {
		return log.Errorf("failed to register run app handler: %w", err)
	}

	if err := cqrs.RegisterCommand[create_translation_templates.CreateTranslationTemplatesCommand](b, create_translation_templates.NewCreateTranslationTemplatesHandler(runner, cfg.Translations, cfg.Translations.AppDir)); err != nil {
		return log.Errorf("failed to register create translation templates handler: %w", err)
	}

	if err := cqrs.RegisterCommand[convert_translations_nc.ConvertTranslationsNCCommand](b, convert_translations_nc.NewConvertTranslationsNCHandler(runner, cfg.Translations, cfg.Translations.AppDir)); err != nil {
		return log.Errorf("failed to register convert translations handler: %w", err)
	}

	if err := cqrs.RegisterCommand[convert_to_locale.ConvertToLocaleCommand](b, convert_to_locale.NewConvertToLocaleHandler(runner, cfg.Translations)); err != nil {
		return log.Errorf("failed to register convert to locale handler: %w", err)
	}

	if err := cqrs.RegisterCommand[write_env.WriteEnvCommand](b, write_env.NewWriteEnvHandler(cfg, appInfo)); err != nil {
		return log.Errorf("failed to register write env handler: %w", err)
	}

	return nil
}
