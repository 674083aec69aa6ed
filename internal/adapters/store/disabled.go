package store

import (
	"context"

	"go.trai.ch/idmap/internal/core/domain"
)

// Disabled is a DocumentStore placeholder used when the session
// configuration could not be loaded. Every operation reports
// domain.ErrStoreUnavailable; the identity map and clear hooks stay
// fully functional without a working store.
type Disabled struct{}

// Load always reports an unavailable store.
func (Disabled) Load(context.Context, string, string) (*domain.Document, error) {
	return nil, domain.ErrStoreUnavailable
}

// Save always reports an unavailable store.
func (Disabled) Save(context.Context, *domain.Document) error {
	return domain.ErrStoreUnavailable
}

// Ping always reports an unavailable store.
func (Disabled) Ping(context.Context) error {
	return domain.ErrStoreUnavailable
}

// Close is a no-op.
func (Disabled) Close() error { return nil }
