package domain

import "go.trai.ch/zerr"

// SchedulingMode selects how units are grouped into worker invocations.
type SchedulingMode string

const (
	// SchedulingDependencyAware layers the graph and barriers between flushes.
	SchedulingDependencyAware SchedulingMode = "dependency-aware"
	// SchedulingNaiveRandom shuffles units and splits them into contiguous
	// chunks with no dependency ordering. Lower guarantees, lower overhead.
	SchedulingNaiveRandom SchedulingMode = "naive-random"
)

// MetadataBackend selects the metadata store implementation.
type MetadataBackend string

const (
	// BackendFilesystem stores entries as files under a root directory.
	BackendFilesystem MetadataBackend = "filesystem"
	// BackendRelational stores entries as rows in a relational database.
	BackendRelational MetadataBackend = "relational"
)

// DefaultAccumulationThreshold is the minimum distinct-unit count the
// scheduler accumulates before a flush.
const DefaultAccumulationThreshold = 16

// Config holds the recognized scheduling and storage options.
type Config struct {
	SourceRoot   string
	SourceSuffix string
	ManifestPath string

	Analyzer []string

	MaxWorkers            int
	AccumulationThreshold int
	Mode                  SchedulingMode

	Metadata MetadataConfig
}

// MetadataConfig holds the metadata store connection parameters.
type MetadataConfig struct {
	Backend MetadataBackend
	// Root is the directory prefix for the filesystem backend. Empty means a
	// null store: writes fail closed and reads miss.
	Root string
	// Path is the database file for the relational backend.
	Path string
}

// Validate checks enum fields and numeric bounds.
func (c *Config) Validate() error {
	switch c.Mode {
	case SchedulingDependencyAware, SchedulingNaiveRandom:
	default:
		return zerr.With(zerr.New("unknown scheduling mode"), "mode", string(c.Mode))
	}
	switch c.Metadata.Backend {
	case BackendFilesystem, BackendRelational:
	default:
		return zerr.With(zerr.New("unknown metadata backend"), "backend", string(c.Metadata.Backend))
	}
	if c.MaxWorkers < 1 {
		return zerr.With(zerr.New("maxWorkers must be positive"), "maxWorkers", c.MaxWorkers)
	}
	if c.AccumulationThreshold < 1 {
		return zerr.With(zerr.New("accumulationThreshold must be positive"), "accumulationThreshold", c.AccumulationThreshold)
	}
	if len(c.Analyzer) == 0 {
		return zerr.New("analyzer command is empty")
	}
	return nil
}
