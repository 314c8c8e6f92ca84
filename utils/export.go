package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatForPath picks the export format from a file extension, falling back
// to def when the extension says nothing.
func FormatForPath(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return def
}

// WriteSchemas writes the schemas as a single JSON array or YAML sequence.
func WriteSchemas(path, format string, schemas []*netcode.PacketSchema) error {
	if schemas == nil {
		schemas = []*netcode.PacketSchema{}
	}

	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(schemas, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(schemas)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode schemas: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSchemas loads a file written by WriteSchemas. The format comes from the
// file extension, JSON otherwise.
func ReadSchemas(path string) ([]*netcode.PacketSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var schemas []*netcode.PacketSchema
	switch FormatForPath(path, FormatJSON) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &schemas)
	default:
		err = json.Unmarshal(data, &schemas)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return schemas, nil
}
