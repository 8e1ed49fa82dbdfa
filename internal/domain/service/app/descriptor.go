package app

import (
	"strings"

	"visionatrix-exapp/internal/domain/model"
)

// ComposeDescriptor completes base with the values declared in info.xml.
// Fields set in base win. The version falls back to the info.xml version and
// then to the image tag. info may be nil.
func ComposeDescriptor(base model.Descriptor, info *model.AppInfo) *model.Descriptor {
	d := base
	if info == nil {
		d.Normalize()
		return &d
	}

	if strings.TrimSpace(d.ID) == "" {
		d.ID = info.ID
	}
	if strings.TrimSpace(d.Name) == "" {
		d.Name = info.Name
	}
	if strings.TrimSpace(d.Version) == "" {
		d.Version = info.Version
	}
	if strings.TrimSpace(d.Version) == "" {
		d.Version = info.ImageTag
	}
	if len(d.Scopes) == 0 {
		d.Scopes = append([]string(nil), info.Scopes...)
	}
	if info.System {
		d.SystemApp = true
	}
	d.Normalize()
	return &d
}
