package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"visionatrix-exapp/internal/application/command/publish_image"
	"visionatrix-exapp/internal/application/ctl"
	"visionatrix-exapp/internal/application/query/get_image_ref"
	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/pkg/cqrs"
)

func (a *app) imageRefCommand() *cobra.Command {
	var buildType, imageVersion string

	cmd := &cobra.Command{
		Use:   "image-ref",
		Short: "Print the image reference for a build type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bt, err := model.ParseBuildType(buildType)
			if err != nil {
				return err
			}
			return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
				ref, err := cqrs.Ask[model.ImageReference](ctx, c.Queries, get_image_ref.GetImageRefQuery{BuildType: bt, Version: imageVersion})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ref.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&buildType, "type", string(model.BuildTypeCPU), "build type: cpu, cuda or rocm")
	cmd.Flags().StringVar(&imageVersion, "version", "", "image version (default: image-tag from info.xml)")
	return cmd
}

type buildPushOptions struct {
	buildType string
	version   string
	platforms []string
	noPush    bool
}

// buildPushCommands returns build-push plus one shortcut per build type.
func (a *app) buildPushCommands() []*cobra.Command {
	cmds := []*cobra.Command{a.buildPushCommand("build-push", "", false)}
	for _, bt := range []model.BuildType{model.BuildTypeCPU, model.BuildTypeCUDA, model.BuildTypeROCM} {
		cmds = append(cmds, a.buildPushCommand("build-push-"+string(bt), bt, true))
	}
	return cmds
}

func (a *app) buildPushCommand(use string, fixed model.BuildType, hidden bool) *cobra.Command {
	opts := &buildPushOptions{buildType: string(model.BuildTypeCPU)}
	short := "Build the container image and push it to the registry"
	if fixed != "" {
		short = fmt.Sprintf("Build and push the %s image", fixed)
	}

	cmd := &cobra.Command{
		Use:    use,
		Short:  short,
		Args:   cobra.NoArgs,
		Hidden: hidden,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fixed != "" {
				opts.buildType = string(fixed)
			}
			return a.buildPush(cmd, opts)
		},
	}
	if fixed == "" {
		cmd.Flags().StringVar(&opts.buildType, "type", opts.buildType, "build type: cpu, cuda or rocm")
	}
	cmd.Flags().StringVar(&opts.version, "version", "", "image version (default: image-tag from info.xml)")
	cmd.Flags().StringSliceVar(&opts.platforms, "platform", nil, "target platforms (default depends on the build type)")
	cmd.Flags().BoolVar(&opts.noPush, "no-push", false, "build only, do not push")
	return cmd
}

func (a *app) buildPush(cmd *cobra.Command, opts *buildPushOptions) error {
	bt, err := model.ParseBuildType(opts.buildType)
	if err != nil {
		return err
	}

	return a.withCtl(cmd, func(ctx context.Context, c *ctl.Ctl) error {
		ref, err := cqrs.Ask[model.ImageReference](ctx, c.Queries, get_image_ref.GetImageRefQuery{BuildType: bt, Version: opts.version})
		if err != nil {
			return err
		}

		if err := c.Commands.Dispatch(ctx, publish_image.PublishImageCommand{
			BuildType: bt,
			Version:   ref.Version,
			Platforms: opts.platforms,
			NoPush:    opts.noPush,
		}); err != nil {
			return err
		}

		if opts.noPush {
			success(cmd, "built %s", bold(ref.String()))
		} else {
			success(cmd, "published %s", bold(ref.String()))
		}
		return nil
	})
}
