// Package domain contains the core domain types for idmap.
package domain

import "time"

// Document is a single document loaded from a backing store.
//
// The identity map holds documents by pointer and never copies or mutates
// them; the mapping layer that loaded a document remains its owner.
type Document struct {
	// Collection is the logical collection the document belongs to.
	Collection string
	// ID is the document's primary identity within its collection.
	ID string
	// Body holds the decoded document fields.
	Body map[string]any
	// LoadedAt records when the document was materialized from the store.
	LoadedAt time.Time
}

// NewDocument creates a Document for the given identity with an empty body.
func NewDocument(collection, id string) *Document {
	return &Document{
		Collection: collection,
		ID:         id,
		Body:       make(map[string]any),
	}
}
