package domain

import "regexp"

// DefaultSessionName is the session used when none is named explicitly.
const DefaultSessionName = "default"

var validSessionNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Session describes one named backing-store connection target.
type Session struct {
	// Name identifies the session within the config.
	Name string
	// Hosts lists the backing store locations. For the SQLite store this is
	// a single file path; the first host wins.
	Hosts []string
	// Database is the logical database name within the session.
	Database string
}

// SessionConfig is the validated set of sessions loaded from idmap.yaml.
type SessionConfig struct {
	Sessions map[string]Session
}

// Session returns the named session, falling back to the default session
// when name is empty.
func (c *SessionConfig) Session(name string) (Session, error) {
	if name == "" {
		name = DefaultSessionName
	}
	s, ok := c.Sessions[name]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// ValidateSessionName reports whether a session name is acceptable.
func ValidateSessionName(name string) error {
	if !validSessionNameRegex.MatchString(name) {
		return ErrInvalidSessionName
	}
	return nil
}
