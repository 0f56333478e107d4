// Package config provides the configuration loader for parc.
package config

import (
	"os"
	"runtime"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration file at path, applies defaults, and validates
// the result.
func (l *Loader) Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	cfg := fromFile(&file)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(f *File) *domain.Config {
	cfg := &domain.Config{
		SourceRoot:            f.Source.Root,
		SourceSuffix:          f.Source.Suffix,
		ManifestPath:          f.Source.Manifest,
		Analyzer:              f.Analyzer,
		MaxWorkers:            f.MaxWorkers,
		AccumulationThreshold: f.AccumulationThreshold,
		Mode:                  domain.SchedulingMode(f.SchedulingMode),
		Metadata: domain.MetadataConfig{
			Backend: domain.MetadataBackend(f.Metadata.Backend),
			Root:    f.Metadata.Root,
			Path:    f.Metadata.Path,
		},
	}

	if cfg.SourceRoot == "" {
		cfg.SourceRoot = "."
	}
	if cfg.SourceSuffix == "" {
		cfg.SourceSuffix = ".py"
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.AccumulationThreshold == 0 {
		cfg.AccumulationThreshold = domain.DefaultAccumulationThreshold
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.SchedulingDependencyAware
	}
	if cfg.Metadata.Backend == "" {
		cfg.Metadata.Backend = domain.BackendFilesystem
	}
	return cfg
}
