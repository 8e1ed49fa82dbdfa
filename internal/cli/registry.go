package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/command/login_registry"
	"visionatrix-exapp/internal/application/ctl"
	"visionatrix-exapp/internal/application/query/get_registries"
	"visionatrix-exapp/internal/domain/dto"
	"visionatrix-exapp/pkg/cqrs"
)

func (a *app) loginCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log the docker CLI in to the image registry",
		Long:  "Log the docker CLI in to the image registry with REGISTRY_USERNAME and REGISTRY_TOKEN (GITHUB_ACTOR and GITHUB_TOKEN in CI).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				if address == "" {
					address = c.Config.Image.Registry
				}
				if err := c.Commands.Dispatch(ctx, login_registry.LoginRegistryCommand{Address: address}); err != nil {
					return err
				}
				success(cmd, "logged in to %s", bold(address))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&address, "registry", "", "registry address (default: image.registry)")
	return cmd
}

func (a *app) registriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registries",
		Short: "List the registries the docker CLI has credentials for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				res, err := cqrs.Ask[*dto.GetRegistriesResult](ctx, c.Queries, get_registries.GetRegistriesQuery{})
				if err != nil {
					return err
				}
				for _, r := range res.Registries {
					fmt.Fprintln(cmd.OutOrStdout(), r.Address)
				}
				return nil
			})
		},
	}
}
