package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pdxmph/gridup/pkg/media"
)

// Manifest lists already-hosted images with their dimensions
type Manifest struct {
	Images []media.Image `json:"images" yaml:"images"`
}

// IsManifestFile reports whether path looks like a manifest
func IsManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadManifest reads a JSON or YAML manifest, chosen by file extension
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	isYAML := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		isYAML = true
	}

	m, err := ParseManifest(data, isYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes a manifest. Both {"images": [...]} and a bare
// list of images are accepted.
func ParseManifest(data []byte, isYAML bool) (*Manifest, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Manifest{Images: []media.Image{}}, nil
	}

	unmarshal := json.Unmarshal
	if isYAML {
		unmarshal = yaml.Unmarshal
	}

	var m Manifest
	if isList(data, isYAML) {
		if err := unmarshal(data, &m.Images); err != nil {
			return nil, err
		}
	} else if err := unmarshal(data, &m); err != nil {
		return nil, err
	}

	if m.Images == nil {
		m.Images = []media.Image{}
	}
	return &m, nil
}

func isList(data []byte, isYAML bool) bool {
	if !isYAML {
		return data[0] == '['
	}
	var probe any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, ok := probe.([]any)
	return ok
}
