package repository

import (
	"context"
	"io"

	"visionatrix-exapp/internal/domain/model"
)

// AppInfoRepository reads the application descriptor (appinfo/info.xml).
type AppInfoRepository interface {
	// ImageTag returns the text of the image-tag element.
	ImageTag() (string, error)

	// AppInfo decodes the descriptor fields used for registration.
	AppInfo() (*model.AppInfo, error)
}

// ImageRepository builds and publishes container images.
type ImageRepository interface {
	// Build builds the image described by plan. Plans with more than one
	// platform are built and pushed in one step.
	Build(ctx context.Context, plan model.BuildPlan) error

	// Push uploads a locally built image.
	Push(ctx context.Context, ref model.ImageReference, creds model.RegistryCredentials) error
}

// RegistryRepository manages registry credentials on the host.
type RegistryRepository interface {
	GetRegistries() ([]model.Registry, error)

	// Credentials resolves the credentials used to push to address.
	Credentials(address string) (model.RegistryCredentials, error)

	// Login stores credentials with the docker CLI.
	Login(ctx context.Context, creds model.RegistryCredentials) error
}

// AppAPIRepository drives the Nextcloud AppAPI through occ.
type AppAPIRepository interface {
	// Unregister removes the application from the host.
	Unregister(ctx context.Context, appID string) error

	// Register registers the application on the given daemon. A nil
	// descriptor registers from app store metadata.
	Register(ctx context.Context, appID, daemon string, d *model.Descriptor) error
}

// CommandRunner runs external programs.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (model.ExecResult, error)
}

// InputRunner runs external programs fed from stdin.
type InputRunner interface {
	RunWithInput(ctx context.Context, stdin io.Reader, dir, name string, args ...string) (model.ExecResult, error)
}

// OCCRunner runs Nextcloud occ commands. args exclude the occ binary itself.
type OCCRunner interface {
	Run(ctx context.Context, args ...string) (model.ExecResult, error)
}
