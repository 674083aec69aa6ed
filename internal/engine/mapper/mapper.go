// Package mapper implements the document mapping layer on top of the
// identity map: consult the scope first, load from the backing store on a
// miss, then populate the scope so repeated lookups return the same
// instance.
package mapper

import (
	"context"
	"errors"
	"strconv"

	"go.trai.ch/idmap/internal/core/domain"
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Mapper loads documents through the identity map.
type Mapper struct {
	store  ports.DocumentStore
	tracer ports.Tracer

	// flight collapses concurrent loads of the same identity across
	// scopes into a single store query. Scope contents stay per-context;
	// only the load itself is shared.
	flight singleflight.Group
}

// NewMapper creates a new Mapper with the given dependencies.
func NewMapper(store ports.DocumentStore, tracer ports.Tracer) *Mapper {
	return &Mapper{
		store:  store,
		tracer: tracer,
	}
}

// Find returns the document for (collection, id).
//
// Within one scope, repeated Finds for the same identity return the
// identical *domain.Document. Without a scope in ctx, Find degrades to a
// plain store load.
func (m *Mapper) Find(ctx context.Context, collection, id string) (*domain.Document, error) {
	if collection == "" {
		return nil, domain.ErrEmptyCollection
	}
	if id == "" {
		return nil, domain.ErrEmptyDocumentID
	}

	key := identity.NewKey(collection, id)

	ctx, span := m.tracer.Start(ctx, "mapper.find")
	defer span.End()
	span.SetAttribute("doc.collection", collection)
	span.SetAttribute("doc.key", strconv.FormatUint(key.Sum64(), 16))

	if cached, ok := identity.Get(ctx, key); ok {
		span.SetAttribute("cache.hit", true)
		return cached.(*domain.Document), nil
	}
	span.SetAttribute("cache.hit", false)

	doc, err := m.load(ctx, collection, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	identity.Put(ctx, key, doc)
	return doc, nil
}

// Save writes the document through to the store and refreshes the scope
// entry, so a Find after Save observes the saved instance.
func (m *Mapper) Save(ctx context.Context, doc *domain.Document) error {
	if doc.Collection == "" {
		return domain.ErrEmptyCollection
	}
	if doc.ID == "" {
		return domain.ErrEmptyDocumentID
	}
	if m.store == nil {
		return domain.ErrStoreUnavailable
	}

	ctx, span := m.tracer.Start(ctx, "mapper.save")
	defer span.End()
	span.SetAttribute("doc.collection", doc.Collection)

	if err := m.store.Save(ctx, doc); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.With(err, "collection", doc.Collection), "id", doc.ID)
	}

	identity.Put(ctx, identity.NewKey(doc.Collection, doc.ID), doc)
	return nil
}

func (m *Mapper) load(ctx context.Context, collection, id string) (*domain.Document, error) {
	if m.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	// The flight key must separate identities exactly; the hash is for
	// trace attributes only. NUL cannot appear in either component.
	flightKey := collection + "\x00" + id
	result, err, _ := m.flight.Do(flightKey, func() (any, error) {
		return m.store.Load(ctx, collection, id)
	})
	if err != nil {
		// Not-found is a normal outcome for callers; anything else gets
		// the identity attached for the log line.
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, err
		}
		return nil, zerr.With(zerr.With(err, "collection", collection), "id", id)
	}

	return result.(*domain.Document), nil
}
