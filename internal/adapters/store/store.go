// Package store implements ports.DocumentStore on SQLite.
//
// SQLite stands in for the document database behind the mapper: documents
// live in a single table keyed by (collection, id) with a JSON body. WAL
// mode keeps concurrent readers cheap while the identity map absorbs
// repeated reads within a request.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	// Register the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"go.trai.ch/idmap/internal/core/domain"
	"go.trai.ch/zerr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
);
`

// Store provides durable document storage backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Open is idempotent; the schema is applied on every call.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zerr.With(zerr.With(domain.ErrStoreOpenFailed, "path", path), "cause", err.Error())
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.With(domain.ErrStoreOpenFailed, "path", path), "cause", err.Error())
	}

	// SQLite supports a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.With(domain.ErrStoreOpenFailed, "path", path), "cause", err.Error())
	}

	return &Store{db: db}, nil
}

// Load fetches a single document by identity.
func (s *Store) Load(ctx context.Context, collection, id string) (*domain.Document, error) {
	var body string
	var updatedAt int64

	row := s.db.QueryRowContext(ctx,
		`SELECT body, updated_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err := row.Scan(&body, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, zerr.With(zerr.With(domain.ErrDocumentNotFound, "collection", collection), "id", id)
		}
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrStoreQueryFailed, "collection", collection), "id", id), "cause", err.Error())
	}

	doc := domain.NewDocument(collection, id)
	doc.LoadedAt = time.Now()
	if err := json.Unmarshal([]byte(body), &doc.Body); err != nil {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrDocumentDecodeFailed, "collection", collection), "id", id), "cause", err.Error())
	}

	return doc, nil
}

// Save stores or replaces a document.
func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	body, err := json.Marshal(doc.Body)
	if err != nil {
		return zerr.With(zerr.With(zerr.With(domain.ErrDocumentEncodeFailed, "collection", doc.Collection), "id", doc.ID), "cause", err.Error())
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		doc.Collection, doc.ID, string(body), time.Now().UnixNano(),
	)
	if err != nil {
		return zerr.With(zerr.With(zerr.With(domain.ErrStoreWriteFailed, "collection", doc.Collection), "id", doc.ID), "cause", err.Error())
	}

	return nil
}

// Ping verifies the store connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return zerr.With(zerr.With(domain.ErrStoreOpenFailed, "pragma", pragma), "cause", err.Error())
		}
	}

	return nil
}
