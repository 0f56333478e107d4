// Package deps builds the unit dependency graph from a manifest file.
package deps

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.GraphProvider = (*Provider)(nil)

// Provider implements ports.GraphProvider using a YAML dependency manifest.
// Units without a manifest entry simply have no dependencies, so a missing
// manifest degrades to a flat single-layer graph.
type Provider struct {
	manifestPath string
}

// NewProvider creates a Provider reading the manifest at path. An empty path
// means no manifest.
func NewProvider(path string) *Provider {
	return &Provider{manifestPath: path}
}

// Manifest is the structure of the dependency manifest file.
type Manifest struct {
	Version string             `yaml:"version"`
	Units   map[string]UnitDTO `yaml:"units"`
}

// UnitDTO is one unit's manifest entry.
type UnitDTO struct {
	Deps []string `yaml:"deps"`
}

// BuildGraph constructs the dependency graph for the discovered source files.
// Every dependency must reference another discovered file.
func (p *Provider) BuildGraph(files []domain.SourceFile) (*domain.Graph, error) {
	manifest, err := p.loadManifest()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.Path] = true
	}

	g := domain.NewGraph()
	for _, f := range files {
		unit := &domain.Unit{
			Name: domain.NewInternedString(f.Path),
			Path: domain.NewInternedString(f.Path),
			Cost: f.Size,
		}
		for _, dep := range manifest.Units[f.Path].Deps {
			if !known[dep] {
				return nil, zerr.With(zerr.With(domain.ErrMissingDependency, "unit", f.Path), "dependency", dep)
			}
			unit.Deps = append(unit.Deps, domain.NewInternedString(dep))
		}
		if err := g.AddUnit(unit); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (p *Provider) loadManifest() (*Manifest, error) {
	if p.manifestPath == "" {
		return &Manifest{}, nil
	}
	data, err := os.ReadFile(p.manifestPath) //nolint:gosec // path comes from user config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, zerr.Wrap(err, "failed to read dependency manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, "failed to parse dependency manifest")
	}
	return &m, nil
}
