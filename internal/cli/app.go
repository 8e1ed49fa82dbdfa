package cli

import (
	"context"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/command/register_app"
	"visionatrix-exapp/internal/application/command/run_app"
	"visionatrix-exapp/internal/application/command/unregister_app"
	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/application/ctl"
	"visionatrix-exapp/internal/application/query/get_app_info"
	"visionatrix-exapp/internal/domain/model"
	appservice "visionatrix-exapp/internal/domain/service/app"
	"visionatrix-exapp/pkg/cqrs"
	"visionatrix-exapp/pkg/log"
)

func baseDescriptor(cfg config.AppConfig) model.Descriptor {
	return model.Descriptor{
		ID:                 cfg.ID,
		Name:               cfg.Name,
		DaemonConfigName:   cfg.Daemon,
		Version:            cfg.Version,
		Secret:             cfg.Secret,
		Port:               cfg.Port,
		Scopes:             cfg.Scopes,
		SystemApp:          model.IntBool(cfg.SystemApp),
		TranslationsFolder: cfg.TranslationsFolder,
	}
}

func (a *app) registerCommand() *cobra.Command {
	var daemon string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Unregister and register the ExApp with AppAPI for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				base := baseDescriptor(c.Config.App)
				if daemon != "" {
					base.DaemonConfigName = daemon
				}

				info, err := cqrs.Ask[*model.AppInfo](ctx, c.Queries, get_app_info.GetAppInfoQuery{})
				if err != nil {
					if base.Version == "" {
						return err
					}
					log.Warn("info.xml not readable, registering from configuration only", "error", err)
					info = nil
				}

				d := appservice.ComposeDescriptor(base, info)
				if err := c.Commands.Dispatch(ctx, register_app.RegisterAppCommand{Descriptor: d}); err != nil {
					return err
				}
				success(cmd, "registered %s %s on %s", bold(d.ID), d.Version, d.DaemonConfigName)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&daemon, "daemon", "", "AppAPI deploy daemon (default: app.daemon)")
	return cmd
}

func (a *app) unregisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Unregister the ExApp from AppAPI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				if err := c.Commands.Dispatch(ctx, unregister_app.UnregisterAppCommand{ID: c.Config.App.ID}); err != nil {
					return err
				}
				success(cmd, "unregistered %s", bold(c.Config.App.ID))
				return nil
			})
		},
	}
}

func (a *app) runCommand() *cobra.Command {
	var daemon string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deploy the released ExApp from the app store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				if daemon == "" {
					daemon = c.Config.App.Daemon
				}
				if err := c.Commands.Dispatch(ctx, run_app.RunAppCommand{ID: c.Config.App.ID, Daemon: daemon}); err != nil {
					return err
				}
				success(cmd, "deployed %s on %s", bold(c.Config.App.ID), daemon)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&daemon, "daemon", "", "AppAPI deploy daemon (default: app.daemon)")
	return cmd
}
