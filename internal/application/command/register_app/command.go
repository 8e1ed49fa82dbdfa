package register_app

import "visionatrix-exapp/internal/domain/model"

// RegisterAppCommand (re)registers the application with AppAPI.
type RegisterAppCommand struct {
	Descriptor *model.Descriptor
}

// Name returns unique command name.
func (c RegisterAppCommand) Name() string {
	return "RegisterApp"
}
