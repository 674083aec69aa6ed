package config

// ConfigFile represents the structure of the idmap.yaml configuration file.
type ConfigFile struct {
	Version  string                `yaml:"version"`
	Sessions map[string]SessionDTO `yaml:"sessions"`
	Watch    []string              `yaml:"watch"`
}

// SessionDTO represents a session definition in the configuration.
type SessionDTO struct {
	Hosts    []string `yaml:"hosts"`
	Database string   `yaml:"database"`
}
