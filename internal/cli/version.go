package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/ctl"
	"visionatrix-exapp/internal/application/query/get_app_info"
	"visionatrix-exapp/internal/application/query/get_image_tag"
	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/pkg/cqrs"
)

const (
	fieldImageTag = "image-tag"
	fieldVersion  = "version"
)

func (a *app) versionCommand() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the image tag declared in info.xml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				var (
					value string
					err   error
				)
				switch field {
				case fieldImageTag:
					value, err = cqrs.Ask[string](ctx, c.Queries, get_image_tag.GetImageTagQuery{})
				case fieldVersion:
					var info *model.AppInfo
					info, err = cqrs.Ask[*model.AppInfo](ctx, c.Queries, get_app_info.GetAppInfoQuery{})
					if err == nil {
						value = info.Version
						if value == "" {
							err = fmt.Errorf("%s has no version element", c.Config.App.InfoXML)
						}
					}
				default:
					err = fmt.Errorf("unknown field %q (want %s or %s)", field, fieldImageTag, fieldVersion)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&field, "field", fieldImageTag, "info.xml value to print: image-tag or version")
	return cmd
}
