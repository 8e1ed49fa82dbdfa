package get_image_tag

// GetImageTagQuery asks for the image tag declared in info.xml.
type GetImageTagQuery struct{}

// Name returns the unique name of the query so that the CQRS bus can route it.
func (q GetImageTagQuery) Name() string {
	return "GetImageTag"
}
