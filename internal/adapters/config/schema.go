package config

// File represents the structure of the parc.yaml configuration file.
type File struct {
	Version string `yaml:"version"`

	Source struct {
		Root     string `yaml:"root"`
		Suffix   string `yaml:"suffix"`
		Manifest string `yaml:"manifest"`
	} `yaml:"source"`

	Analyzer []string `yaml:"analyzer"`

	MaxWorkers            int    `yaml:"maxWorkers"`
	AccumulationThreshold int    `yaml:"accumulationThreshold"`
	SchedulingMode        string `yaml:"schedulingMode"`

	Metadata struct {
		Backend string `yaml:"backend"`
		Root    string `yaml:"root"`
		Path    string `yaml:"path"`
	} `yaml:"metadata"`
}
