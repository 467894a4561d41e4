// Package seed reads catalog seed files: YAML documents listing cameras,
// flashes, lenses and stock records.
package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/camstock/internal/domain"
)

type File struct {
	Cameras []domain.Camera `yaml:"cameras"`
	Flashes []domain.Flash  `yaml:"flashes"`
	Lenses  []domain.Lens   `yaml:"lenses"`
	Stock   []domain.Stock  `yaml:"stock"`
}

// Len returns the number of records in f.
func (f *File) Len() int {
	return len(f.Cameras) + len(f.Flashes) + len(f.Lenses) + len(f.Stock)
}

// Parse decodes a seed document. Unknown keys are rejected so typos do not
// silently drop records.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	f := &File{}
	if err := dec.Decode(f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return f, nil
}

func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	return Parse(fh)
}
