package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"visionatrix-exapp/pkg/capabilities"
)

// toolUsage says which commands stop working without a tool.
var toolUsage = map[string]string{
	capabilities.CapabilityDocker: "build-push, login, register with occ.mode=docker",
	capabilities.CapabilityBuildx: "multi-platform build-push",
	capabilities.CapabilityPHP:    "translation-templates, convert-translations-nc, occ.mode=local",
	capabilities.CapabilityMsgfmt: "convert-to-locale",
	capabilities.CapabilityGit:    "release tagging",
}

func (a *app) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the host tools the release workflow needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := capabilities.GetSystemInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", bold("host"), info.OS, info.Arch)

			var missing []string
			for _, c := range capabilities.NewCapabilityFactory().GetAllCapabilities() {
				if c.IsAvailable() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %s\n", green("✓"), c.Name(), c.Version())
					continue
				}
				missing = append(missing, c.Name())
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s needed for %s\n", red("✗"), c.Name(), toolUsage[c.Name()])
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing tools: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
