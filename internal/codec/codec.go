// Package codec loads and dumps JSON, YAML, and plain-text files into the
// generic value model the detection and masking engines operate on:
// string | map[string]any | []any | scalar.
package codec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path and decodes it by extension. JSON and YAML documents
// decode into the generic value model; any other extension is returned as
// the file's text.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch ext(path) {
	case ".json":
		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to parse JSON from %s: %w", path, err)
		}
		return normalize(value), nil
	case ".yml", ".yaml":
		var value any
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
		}
		return normalize(value), nil
	default:
		return string(data), nil
	}
}

// Dump writes value to path, encoded by extension. Strings written to a
// non-JSON, non-YAML path are written verbatim.
func Dump(path string, value any) error {
	var (
		data []byte
		err  error
	)

	switch ext(path) {
	case ".json":
		data, err = json.MarshalIndent(value, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case ".yml", ".yaml":
		data, err = yaml.Marshal(value)
	default:
		if s, ok := value.(string); ok {
			data = []byte(s)
		} else {
			data = []byte(fmt.Sprint(value))
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// normalize converts decoder-specific container types into the generic
// model. yaml.v3 can produce map[string]any already, but nested non-string
// keys and mixed containers still need a pass so the walkers only ever see
// map[string]any and []any.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = normalize(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[fmt.Sprint(key)] = normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = normalize(child)
		}
		return out
	default:
		return value
	}
}
