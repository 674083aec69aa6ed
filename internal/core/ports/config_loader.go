package ports

import "go.trai.ch/idmap/internal/core/domain"

// ConfigLoader defines the interface for loading the session configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the session configuration starting from the given working
	// directory and returns the validated sessions.
	Load(cwd string) (*domain.SessionConfig, error)

	// DiscoverConfigPath walks up from cwd to find the config file path.
	// It returns domain.ErrConfigNotFound if no config file exists.
	DiscoverConfigPath(cwd string) (string, error)

	// WatchPaths returns the reload-watch roots named in the config file.
	// A missing or invalid config yields no paths rather than an error.
	WatchPaths(cwd string) []string
}
