// Package cli implements the exappctl command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/application/ctl"
	"visionatrix-exapp/internal/application/version"
	"visionatrix-exapp/pkg/log"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// ctlFactory creates the dispatcher once the configuration is loaded.
type ctlFactory func(ctx context.Context, cfg *config.Config, out io.Writer) (*ctl.Ctl, error)

type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	newCtl ctlFactory
}

// NewRootCommand returns the exappctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(ctl.New)
}

func newRootCommand(factory ctlFactory) *cobra.Command {
	a := &app{newCtl: factory}

	root := &cobra.Command{
		Use:   "exappctl",
		Short: "Build, publish and register the Visionatrix Nextcloud ExApp",
		Long: fmt.Sprintf(`%s %s

Release tooling for the Visionatrix ExApp: image builds for cpu, cuda and
rocm, AppAPI registration through occ and translation housekeeping.

Configuration is read from %s (see --config). Registry credentials come from
REGISTRY_USERNAME and REGISTRY_TOKEN.`, bold("exappctl"), yellow(version.GetVersion()), config.DefaultConfigPath),
		Version:           version.GetVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigPath, "path to the exappctl configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the configuration")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text or json)")

	root.AddCommand(
		a.versionCommand(),
		a.imageRefCommand(),
		a.loginCommand(),
		a.registriesCommand(),
		a.registerCommand(),
		a.unregisterCommand(),
		a.runCommand(),
		a.envCommand(),
		a.doctorCommand(),
		a.configCommand(),
	)
	root.AddCommand(a.buildPushCommands()...)
	root.AddCommand(a.translationCommands()...)
	return root
}

// load reads the configuration before any subcommand runs.
func (a *app) load(_ *cobra.Command, _ []string) error {
	log.InitLog("info", a.logFormat)

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	log.InitLog(level, a.logFormat)

	a.cfg = cfg
	return nil
}

// withCtl runs fn with a dispatcher that is closed afterwards.
func (a *app) withCtl(cmd *cobra.Command, fn func(ctx context.Context, c *ctl.Ctl) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := a.newCtl(ctx, a.cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// Execute runs exappctl and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("Error:"), err)
		return 1
	}
	return 0
}
