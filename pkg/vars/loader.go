package vars

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON or YAML document whose top level is a mapping.
// Top-level keys keep their document order.
func Parse(data []byte, source string) (*Store, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("vars: file %s is empty", source)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("vars: parse %s: invalid JSON or YAML: %w", source, err)
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("vars: parse %s: %w", source, ErrInvalidInput)
	}

	mapping := node.Content[0]
	store := New()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := strings.TrimSpace(mapping.Content[i].Value)
		if key == "" {
			return nil, fmt.Errorf("vars: file %s defines an empty key", source)
		}
		value, err := decodeValue(mapping.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("vars: parse %s: key %q: %w", source, key, err)
		}
		store.Set(key, value)
	}
	return store, nil
}

// LoadFile reads variables from a JSON or YAML file on disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vars: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads variables from a JSON or YAML file inside fsys.
func LoadFS(fsys fs.FS, path string) (*Store, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("vars: read %s: %w", path, err)
	}
	return Parse(data, path)
}

func decodeValue(node *yaml.Node) (any, error) {
	var out any
	if err := node.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
