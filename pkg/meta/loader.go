package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a meta configuration from JSON or YAML.
func Parse(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("meta: file %s is empty", source)
	}

	var config map[string]any
	if err := json.Unmarshal(data, &config); err == nil {
		return config, nil
	}
	if err := yaml.Unmarshal(data, &config); err == nil {
		return config, nil
	}
	return nil, fmt.Errorf("meta: parse %s: invalid JSON or YAML", source)
}

// LoadFile reads a meta configuration file from disk.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meta: read %s: %w", path, err)
	}
	return Parse(data, path)
}
