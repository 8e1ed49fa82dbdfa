package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// UnmarshalYAML parses YAML bytes into the provided object. Keys that do not
// map to a field of obj are rejected.
func UnmarshalYAML(yamlBytes []byte, obj interface{}) error {
	if err := yaml.UnmarshalWithOptions(yamlBytes, obj, yaml.Strict()); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}
	return nil
}

// MarshalYAML renders obj as YAML
func MarshalYAML(obj interface{}) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(obj, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("error converting to YAML: %w", err)
	}
	return out, nil
}
