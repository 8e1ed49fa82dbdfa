package cli

import (
	"context"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/command/write_env"
	"visionatrix-exapp/internal/application/ctl"
)

func (a *app) envCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Write the .env file used to start the ExApp for a manual install",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				path := output
				if path == "" {
					path = c.Config.EnvFile
				}
				if err := c.Commands.Dispatch(ctx, write_env.WriteEnvCommand{Path: path}); err != nil {
					return err
				}
				success(cmd, "wrote %s", bold(path))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: env_file)")
	return cmd
}
