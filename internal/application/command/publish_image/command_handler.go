package publish_image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"visionatrix-exapp/internal/application/config"
	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

var (
	// ErrNotRepositoryOwner is returned when CI runs in a fork.
	ErrNotRepositoryOwner = errors.New("repository owner does not match the image org")
	// ErrMissingRegistryToken is returned when CI has no credentials to push with.
	ErrMissingRegistryToken = errors.New("registry token is required to publish from CI")
)

// PublishImageHandler handles PublishImageCommand.
type PublishImageHandler struct {
	appInfo  repository.AppInfoRepository
	images   repository.ImageRepository
	registry repository.RegistryRepository
	image    config.ImageConfig
	// owner is GITHUB_REPOSITORY_OWNER, empty outside CI.
	owner string
}

// NewPublishImageHandler constructs a PublishImageHandler.
func NewPublishImageHandler(appInfo repository.AppInfoRepository, images repository.ImageRepository, registry repository.RegistryRepository, image config.ImageConfig, owner string) *PublishImageHandler {
	return &PublishImageHandler{
		appInfo:  appInfo,
		images:   images,
		registry: registry,
		image:    image,
		owner:    strings.TrimSpace(owner),
	}
}

// Handle executes the PublishImageCommand.
func (h *PublishImageHandler) Handle(ctx context.Context, cmd PublishImageCommand) error {
	if h.owner != "" && !strings.EqualFold(h.owner, h.image.Org) {
		return fmt.Errorf("%w: owner %q, org %q", ErrNotRepositoryOwner, h.owner, h.image.Org)
	}

	version := strings.TrimSpace(cmd.Version)
	if version == "" {
		tag, err := h.appInfo.ImageTag()
		if err != nil {
			return fmt.Errorf("failed to read image tag: %w", err)
		}
		version = tag
	}

	ref, err := model.NewImageReference(h.image.Registry, h.image.Org, h.image.Name, cmd.BuildType, version)
	if err != nil {
		return err
	}

	platforms := cmd.Platforms
	if len(platforms) == 0 {
		platforms = cmd.BuildType.DefaultPlatforms()
	}
	plan := model.BuildPlan{
		Ref:        ref,
		BuildType:  cmd.BuildType,
		Platforms:  platforms,
		Dockerfile: h.image.Dockerfile,
		ContextDir: h.image.Context,
		Push:       !cmd.NoPush,
	}

	var creds model.RegistryCredentials
	if plan.Push {
		creds, err = h.registry.Credentials(ref.Registry)
		if err != nil {
			return fmt.Errorf("failed to resolve registry credentials: %w", err)
		}
		if h.owner != "" && creds.Empty() {
			return ErrMissingRegistryToken
		}
	}

	log.Info("Processing publish image command", "image", ref.String(), "platforms", strings.Join(platforms, ","), "push", plan.Push)
	if err := h.images.Build(ctx, plan); err != nil {
		return err
	}
	// buildx pushes as part of a multi-platform build.
	if plan.Push && !plan.MultiPlatform() {
		if err := h.images.Push(ctx, ref, creds); err != nil {
			return err
		}
	}

	log.Info("Image published", "image", ref.String(), "pushed", plan.Push)
	return nil
}
