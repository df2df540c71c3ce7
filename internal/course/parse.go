package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/madan-d/classmos/internal/progression"
)

// Format is a structure file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to
// YAML for anything that is not .json.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a structure and validates it.
func Parse(data []byte, format Format) (progression.Structure, error) {
	var s progression.Structure
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return s, fmt.Errorf("parse json structure: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return s, fmt.Errorf("parse yaml structure: %w", err)
		}
	default:
		return s, fmt.Errorf("unknown structure format %q", format)
	}
	if err := Validate(s); err != nil {
		return s, err
	}
	return s, nil
}

// Marshal encodes a structure in format.
func Marshal(s progression.Structure, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unknown structure format %q", format)
}
