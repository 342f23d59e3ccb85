package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finscope/newscrawl/internal/domain"
)

// sourcesFile is the on-disk shape of sources.yml.
type sourcesFile struct {
	Sources []domain.SourceTarget `yaml:"sources"`
}

// Load reads a registry from the given YAML file. A missing file falls
// back to the default registry so a fresh checkout works without setup.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if unmarshalErr := yaml.Unmarshal(data, &file); unmarshalErr != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, unmarshalErr)
	}

	return New(file.Sources)
}
