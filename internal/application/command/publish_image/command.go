package publish_image

import "visionatrix-exapp/internal/domain/model"

// PublishImageCommand builds the container image for one build type and
// pushes it to the registry.
type PublishImageCommand struct {
	BuildType model.BuildType
	// Version overrides the image tag read from info.xml.
	Version string
	// Platforms overrides the default platforms of BuildType.
	Platforms []string
	// NoPush builds the image without publishing it.
	NoPush bool
}

// Name returns unique command name.
func (c PublishImageCommand) Name() string {
	return "PublishImage"
}
