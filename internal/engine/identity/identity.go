// Package identity implements the request-scoped identity map.
//
// A Scope guarantees that repeated lookups for the same logical document
// within one unit of work return the identical instance instead of
// re-fetching it. Scopes are carried through context.Context, so two
// concurrent units of work never see each other's entries.
package identity

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a single logical document inside a scope.
//
// Keys are compared by value equality of (Collection, ID); equal IDs in
// distinct collections never collide.
type Key struct {
	// Collection is the entity-type tag.
	Collection string
	// ID is the primary identity value within the collection.
	ID string
}

// NewKey creates a Key for the given collection and id.
func NewKey(collection, id string) Key {
	return Key{Collection: collection, ID: id}
}

// Sum64 returns a stable fingerprint of the key.
// It is used as a low-cardinality trace attribute, never for identity.
func (k Key) Sum64() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(k.Collection)
	// Separator prevents ("ab","c") and ("a","bc") from colliding.
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(k.ID)
	return d.Sum64()
}

// String returns the key in "collection/id" form for logs.
func (k Key) String() string {
	return k.Collection + "/" + k.ID
}

// Stats holds counters for one scope's lifetime.
// Counters are atomic so telemetry can read them while a request is live.
type Stats struct {
	hits   atomic.Int64
	misses atomic.Int64
	puts   atomic.Int64
}

// Hits returns the number of lookups answered from the scope.
func (s *Stats) Hits() int64 { return s.hits.Load() }

// Misses returns the number of lookups that fell through to the caller.
func (s *Stats) Misses() int64 { return s.misses.Load() }

// Puts returns the number of entries stored, including overwrites.
func (s *Stats) Puts() int64 { return s.puts.Load() }

// String renders the counters for an end-of-request log line.
func (s *Stats) String() string {
	return "hits=" + strconv.FormatInt(s.Hits(), 10) +
		" misses=" + strconv.FormatInt(s.Misses(), 10) +
		" puts=" + strconv.FormatInt(s.Puts(), 10)
}

// Scope is one unit of work's identity-map partition.
//
// Exactly one execution context owns a Scope; entries are never visible
// to other contexts. The internal mutex exists only because ClearAll may
// wipe a live scope from the reload goroutine; it is uncontended on the
// lookup path.
type Scope struct {
	mu      sync.Mutex
	entries map[Key]any
	stats   Stats

	registry *Registry
	released atomic.Bool
}

// NewScope creates an empty, unregistered Scope.
// Most callers should use Registry.Begin or WithScope instead, which also
// register the scope for clear-on-reload.
func NewScope() *Scope {
	return &Scope{}
}

// Get returns the cached value for key.
// A miss is normal control flow, reported via the second return value.
func (s *Scope) Get(key Key) (any, bool) {
	s.mu.Lock()
	v, ok := s.entries[key]
	s.mu.Unlock()

	if ok {
		s.stats.hits.Add(1)
	} else {
		s.stats.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key, silently overwriting any previous entry.
func (s *Scope) Put(key Key, value any) {
	s.mu.Lock()
	if s.entries == nil {
		// Lazy allocation: a scope that never caches anything stays a nil map.
		s.entries = make(map[Key]any)
	}
	s.entries[key] = value
	s.mu.Unlock()

	s.stats.puts.Add(1)
}

// Clear removes all entries. Clearing an empty scope is a no-op.
func (s *Scope) Clear() {
	s.mu.Lock()
	clear(s.entries)
	s.mu.Unlock()
}

// Len returns the number of live entries.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns the scope's lifetime counters.
func (s *Scope) Stats() *Stats {
	return &s.stats
}

// Release clears the scope and removes it from its registry.
// It is idempotent and must run on every exit path of the unit of work,
// including panics and cancellation.
func (s *Scope) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.Clear()
	if s.registry != nil {
		s.registry.remove(s)
	}
}
