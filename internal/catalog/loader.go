package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/catalog.yaml
var defaultCatalogYAML []byte

// File is the on-disk catalog layout.
type File struct {
	Games []Entry `yaml:"games"`
}

// Parse decodes catalog YAML into a catalog.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: cannot parse: %w", err)
	}
	return New(f.Games...)
}

// Load loads the game catalog.
// Search order: customPath -> ~/.scorecard/catalog.yaml -> ./configs/catalog.yaml -> embedded default
func Load(customPath string) (*Catalog, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: failed to read %s: %w", customPath, err)
		}
		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", customPath, err)
		}
		return c, nil
	}

	// Try user config directory
	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".scorecard", "catalog.yaml")); err == nil {
			if c, err := Parse(data); err == nil {
				return c, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/catalog.yaml"); err == nil {
		if c, err := Parse(data); err == nil {
			return c, nil
		}
	}

	return Parse(defaultCatalogYAML)
}
