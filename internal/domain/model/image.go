package model

import (
	"errors"
	"fmt"
	"strings"
)

// BuildType selects the accelerator flavour of the container image. It is
// passed to the Dockerfile as the BUILD_TYPE build argument.
type BuildType string

const (
	BuildTypeCPU  BuildType = "cpu"
	BuildTypeCUDA BuildType = "cuda"
	BuildTypeROCM BuildType = "rocm"
)

// DefaultRegistry is the registry images are published to when none is configured.
const DefaultRegistry = "ghcr.io"

// ErrUnknownBuildType is returned by ParseBuildType.
var ErrUnknownBuildType = errors.New("unknown build type")

// ParseBuildType accepts cpu, cuda or rocm in any case.
func ParseBuildType(s string) (BuildType, error) {
	switch bt := BuildType(strings.ToLower(strings.TrimSpace(s))); bt {
	case BuildTypeCPU, BuildTypeCUDA, BuildTypeROCM:
		return bt, nil
	default:
		return "", fmt.Errorf("%w %q (want cpu, cuda or rocm)", ErrUnknownBuildType, s)
	}
}

// Variant is the image name suffix. CPU images carry none.
func (b BuildType) Variant() string {
	if b == BuildTypeCPU {
		return ""
	}
	return string(b)
}

// DefaultPlatforms returns the target platforms for a build type. CPU images
// are multi-arch, accelerator images only exist for amd64.
func (b BuildType) DefaultPlatforms() []string {
	if b == BuildTypeCPU {
		return []string{"linux/arm64/v8", "linux/amd64"}
	}
	return []string{"linux/amd64"}
}

// ImageReference identifies a published image:
// <registry>/<org>/<name>[-<variant>]:<version>.
type ImageReference struct {
	Registry string
	Org      string
	Name     string
	Variant  string
	Version  string
}

// NewImageReference builds the reference for a build type. org and name are
// lowercased since registries reject uppercase repository names.
func NewImageReference(registry, org, name string, buildType BuildType, version string) (ImageReference, error) {
	ref := ImageReference{
		Registry: strings.TrimSuffix(strings.TrimSpace(registry), "/"),
		Org:      strings.ToLower(strings.TrimSpace(org)),
		Name:     strings.ToLower(strings.TrimSpace(name)),
		Variant:  buildType.Variant(),
		Version:  strings.TrimSpace(version),
	}
	if ref.Registry == "" {
		ref.Registry = DefaultRegistry
	}
	switch {
	case ref.Org == "":
		return ImageReference{}, errors.New("image org is required")
	case ref.Name == "":
		return ImageReference{}, errors.New("image name is required")
	case ref.Version == "":
		return ImageReference{}, errors.New("image version is required")
	}
	return ref, nil
}

// Repository returns the reference without the tag.
func (r ImageReference) Repository() string {
	name := r.Name
	if r.Variant != "" {
		name += "-" + r.Variant
	}
	return r.Registry + "/" + r.Org + "/" + name
}

func (r ImageReference) String() string {
	return r.Repository() + ":" + r.Version
}

// BuildPlan describes one image build.
type BuildPlan struct {
	Ref        ImageReference
	BuildType  BuildType
	Platforms  []string
	Dockerfile string
	ContextDir string
	Push       bool
}

// MultiPlatform reports whether the plan needs a buildx manifest list.
func (p BuildPlan) MultiPlatform() bool {
	return len(p.Platforms) > 1
}

// BuildArgs returns the build arguments passed to the Dockerfile.
func (p BuildPlan) BuildArgs() map[string]string {
	return map[string]string{"BUILD_TYPE": string(p.BuildType)}
}
