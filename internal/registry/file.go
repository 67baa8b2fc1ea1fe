package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"novad/internal/common/fsutil"
	"novad/pkg/types"
)

// fileSchema is the on-disk shape of a registry overlay file.
type fileSchema struct {
	Models []types.Descriptor `json:"models" yaml:"models" toml:"models"`
}

// LoadFile reads extra descriptors from a toml/yaml/json file. Entries whose
// id matches a built-in replace it; new ids are appended in file order.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string) ([]types.Descriptor, error) {
	if path == "" {
		return nil, fmt.Errorf("empty registry path")
	}
	expanded, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	var f fileSchema
	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported registry extension: %s", ext)
	}
	for i, d := range f.Models {
		if d.ID == "" {
			return nil, fmt.Errorf("registry entry %d has no id", i)
		}
	}
	return f.Models, nil
}

// Overlay returns a new registry with extra descriptors merged over the base
// entries. Declaration order of the base is preserved.
func Overlay(base []types.Descriptor, extra []types.Descriptor) *Registry {
	return New(append(append([]types.Descriptor(nil), base...), extra...))
}
