package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigReadFailed is returned when the session config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the session config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no session config file can be found.
	ErrConfigNotFound = zerr.New("could not find idmap.yaml")

	// ErrNoSessions is returned when the config file defines no sessions.
	ErrNoSessions = zerr.New("no sessions configured")

	// ErrSessionNotFound is returned when the named session is not in the config.
	ErrSessionNotFound = zerr.New("session not found")

	// ErrInvalidSessionName is returned when a session name contains invalid characters.
	ErrInvalidSessionName = zerr.New("session name can only contain alphanumeric characters, hyphens and underscores")

	// ErrDocumentNotFound is returned when a document does not exist in the backing store.
	ErrDocumentNotFound = zerr.New("document not found")

	// ErrEmptyCollection is returned when a lookup is attempted with an empty collection name.
	ErrEmptyCollection = zerr.New("collection name is empty")

	// ErrEmptyDocumentID is returned when a lookup is attempted with an empty document id.
	ErrEmptyDocumentID = zerr.New("document id is empty")

	// ErrStoreOpenFailed is returned when the backing store cannot be opened.
	ErrStoreOpenFailed = zerr.New("failed to open document store")

	// ErrStoreQueryFailed is returned when a backing store query fails.
	ErrStoreQueryFailed = zerr.New("failed to query document store")

	// ErrStoreWriteFailed is returned when a backing store write fails.
	ErrStoreWriteFailed = zerr.New("failed to write to document store")

	// ErrStoreUnavailable is returned when an operation requires a store but none is configured.
	ErrStoreUnavailable = zerr.New("document store is not available")

	// ErrDocumentDecodeFailed is returned when a stored document body cannot be decoded.
	ErrDocumentDecodeFailed = zerr.New("failed to decode document body")

	// ErrDocumentEncodeFailed is returned when a document body cannot be encoded for storage.
	ErrDocumentEncodeFailed = zerr.New("failed to encode document body")

	// ErrServeFailed is returned when the HTTP server terminates abnormally.
	ErrServeFailed = zerr.New("server execution failed")
)
