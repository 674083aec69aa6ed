// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/idmap/internal/core/domain"
)

// DocumentStore defines the interface for the backing document store.
//
// The store is the slow path behind the identity map: the mapper consults
// the map first and only calls Load on a miss.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DocumentStore interface {
	// Load fetches a single document by identity.
	// It returns domain.ErrDocumentNotFound if no such document exists.
	Load(ctx context.Context, collection, id string) (*domain.Document, error)

	// Save stores or replaces a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Ping verifies the store connection is usable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
