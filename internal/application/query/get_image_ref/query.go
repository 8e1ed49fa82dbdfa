package get_image_ref

import "visionatrix-exapp/internal/domain/model"

// GetImageRefQuery asks for the reference an image of BuildType is published
// under. An empty Version means the image tag from info.xml.
type GetImageRefQuery struct {
	BuildType model.BuildType
	Version   string
}

// Name returns the unique name of the query so that the CQRS bus can route it.
func (q GetImageRefQuery) Name() string {
	return "GetImageRef"
}
