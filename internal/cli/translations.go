package cli

import (
	"context"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/command/convert_to_locale"
	"visionatrix-exapp/internal/application/command/convert_translations_nc"
	"visionatrix-exapp/internal/application/command/create_translation_templates"
	"visionatrix-exapp/internal/application/ctl"
	"visionatrix-exapp/pkg/cqrs"
)

func (a *app) translationCommands() []*cobra.Command {
	return []*cobra.Command{
		a.dispatchCommand("translation-templates", "translation_templates", "Create the .pot translation templates", create_translation_templates.CreateTranslationTemplatesCommand{}),
		a.dispatchCommand("convert-translations-nc", "convert_translations_nc", "Convert .po files to Nextcloud l10n catalogs", convert_translations_nc.ConvertTranslationsNCCommand{}),
		a.dispatchCommand("convert-to-locale", "convert_to_locale", "Compile .po files into the gettext locale tree", convert_to_locale.ConvertToLocaleCommand{}),
	}
}

// dispatchCommand is a command without flags that dispatches msg.
func (a *app) dispatchCommand(use, alias, short string, msg cqrs.Command) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				if err := c.Commands.Dispatch(ctx, msg); err != nil {
					return err
				}
				success(cmd, "%s done", use)
				return nil
			})
		},
	}
}
