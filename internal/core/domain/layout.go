package domain

import "path/filepath"

const (
	// IdmapDirName is the name of the internal metadata directory.
	IdmapDirName = ".idmap"

	// StoreFileName is the name of the SQLite document store file.
	StoreFileName = "documents.db"

	// ConfigFileName is the name of the session configuration file.
	ConfigFileName = "idmap.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultIdmapPath returns the default root directory for idmap metadata.
func DefaultIdmapPath() string {
	return IdmapDirName
}

// DefaultStorePath returns the default path for the SQLite document store.
// Sessions that name no hosts fall back to it.
func DefaultStorePath() string {
	return filepath.Join(DefaultIdmapPath(), StoreFileName)
}
