package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads settings from path, picking the decoder by file
// extension. YAML (.yaml, .yml) and JSON (.json) are recognized; the
// extension check is case-insensitive.
func FromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var decode func([]byte) (Config, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = FromYAML
	case ".json":
		decode = FromJSON
	default:
		return Config{}, fmt.Errorf("config %s: unrecognized extension", path)
	}
	return decode(raw)
}

// FromYAML decodes YAML settings. An empty document yields an empty,
// usable Config so callers fall back to defaults like the pool sizing
// rule.
func FromYAML(raw []byte) (Config, error) {
	var settings map[string]any
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return Config{}, fmt.Errorf("decode yaml config: %w", err)
	}
	return New(settings), nil
}

// FromJSON decodes JSON settings.
func FromJSON(raw []byte) (Config, error) {
	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		return Config{}, fmt.Errorf("decode json config: %w", err)
	}
	return New(settings), nil
}
