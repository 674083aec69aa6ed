// Package config provides the session configuration loader for idmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/idmap/internal/core/domain"
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the session configuration starting from cwd and returns the
// validated sessions.
func (l *Loader) Load(cwd string) (*domain.SessionConfig, error) {
	configPath, err := l.DiscoverConfigPath(cwd)
	if err != nil {
		return nil, err
	}
	return l.loadFile(configPath)
}

// DiscoverConfigPath walks up from cwd looking for idmap.yaml.
func (l *Loader) DiscoverConfigPath(cwd string) (string, error) {
	currentDir := cwd

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// WatchPaths returns the additional reload-watch roots named in the config
// file, resolved relative to the config file's directory. A missing or
// invalid config yields no paths rather than an error; reload clearing
// must work without configuration.
func (l *Loader) WatchPaths(cwd string) []string {
	configPath, err := l.DiscoverConfigPath(cwd)
	if err != nil {
		return nil
	}

	var file ConfigFile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil
	}

	baseDir := filepath.Dir(configPath)
	paths := make([]string, 0, len(file.Watch))
	for _, p := range file.Watch {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		paths = append(paths, p)
	}
	return paths
}

func (l *Loader) loadFile(configPath string) (*domain.SessionConfig, error) {
	var file ConfigFile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	if len(file.Sessions) == 0 {
		return nil, zerr.With(domain.ErrNoSessions, "path", configPath)
	}

	cfg := &domain.SessionConfig{Sessions: make(map[string]domain.Session, len(file.Sessions))}

	for name, dto := range file.Sessions {
		if err := domain.ValidateSessionName(name); err != nil {
			return nil, zerr.With(err, "session", name)
		}
		if len(dto.Hosts) == 0 {
			l.Logger.Warn(fmt.Sprintf("session %q has no hosts, using %s", name, domain.DefaultStorePath()))
			dto.Hosts = []string{domain.DefaultStorePath()}
		}
		if dto.Database == "" {
			l.Logger.Warn(fmt.Sprintf("session %q has no database set, using session name", name))
			dto.Database = name
		}

		cfg.Sessions[name] = domain.Session{
			Name:     name,
			Hosts:    dto.Hosts,
			Database: dto.Database,
		}
	}

	return cfg, nil
}

func readAndUnmarshalYAML(path string, out *ConfigFile) error {
	// #nosec G304 -- path comes from config discovery, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.With(domain.ErrConfigReadFailed, "path", path), "cause", err.Error())
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(zerr.With(domain.ErrConfigParseFailed, "path", path), "cause", err.Error())
	}

	return nil
}
