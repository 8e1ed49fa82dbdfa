package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Descriptor is the registration payload handed to
// `occ app_api:app:register --json-info`.
type Descriptor struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	DaemonConfigName   string   `json:"daemon_config_name"`
	Version            string   `json:"version"`
	Secret             string   `json:"secret"`
	Port               int      `json:"port"`
	Scopes             []string `json:"scopes"`
	SystemApp          IntBool  `json:"system_app"`
	TranslationsFolder string   `json:"translations_folder,omitempty"`
}

// IntBool marshals as 0 or 1, the form AppAPI expects for flags.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "1", "true":
		*b = true
	case "0", "false", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean flag %s", data)
	}
	return nil
}

// ErrInvalidDescriptor is wrapped by every Validate failure.
var ErrInvalidDescriptor = errors.New("invalid app descriptor")

// Validate checks that every field AppAPI requires is set.
func (d *Descriptor) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"id":                 d.ID,
		"name":               d.Name,
		"daemon_config_name": d.DaemonConfigName,
		"version":            d.Version,
		"secret":             d.Secret,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrInvalidDescriptor, strings.Join(missing, ", "))
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidDescriptor, d.Port)
	}
	return nil
}

// Normalize trims fields and deduplicates scopes keeping first-seen order.
func (d *Descriptor) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.DaemonConfigName = strings.TrimSpace(d.DaemonConfigName)
	d.Version = strings.TrimSpace(d.Version)
	d.Scopes = uniqueScopes(d.Scopes)
}

// JSON returns the compact payload. The descriptor is normalized first.
func (d *Descriptor) JSON() (string, error) {
	d.Normalize()
	if d.Scopes == nil {
		d.Scopes = []string{}
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal descriptor: %w", err)
	}
	return string(raw), nil
}

func uniqueScopes(scopes []string) []string {
	if scopes == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
