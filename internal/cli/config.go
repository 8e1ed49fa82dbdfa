package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/config"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the exappctl configuration file",
	}
	cmd.AddCommand(a.configInitCommand())
	return cmd
}

func (a *app) configInitCommand() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file filled with the defaults",
		Long: `Write a configuration file filled with the defaults. Registry credentials
are never written; provide them through REGISTRY_USERNAME and REGISTRY_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			if path == "" {
				path = a.configPath
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite it", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}
			if err := config.SaveConfig(config.NewConfig(), path); err != nil {
				return err
			}
			success(cmd, "wrote %s", bold(path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: --config)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
