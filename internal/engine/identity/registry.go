package identity

import "sync"

// Registry tracks the live scopes of a process so that a reload event can
// clear all of them at once, independently of any request lifecycle.
//
// The registry is only touched at scope boundaries (Begin/Release) and by
// ClearAll; the per-lookup hot path never takes its lock.
type Registry struct {
	mu     sync.Mutex
	scopes map[*Scope]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[*Scope]struct{})}
}

// Begin creates a fresh Scope registered for clear-on-reload.
// The caller must arrange for Release to run on every exit path.
func (r *Registry) Begin() *Scope {
	s := &Scope{registry: r}
	r.mu.Lock()
	r.scopes[s] = struct{}{}
	r.mu.Unlock()
	return s
}

// ClearAll clears every live scope. It is safe to call at any time, even
// before any scope exists or after a failed configuration load.
//
// A request whose scope is cleared mid-flight simply re-misses on its next
// lookup; entries populated before the reload are gone, which is the point.
func (r *Registry) ClearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for s := range r.scopes {
		s.Clear()
	}
	return len(r.scopes)
}

// Len returns the number of live scopes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

func (r *Registry) remove(s *Scope) {
	r.mu.Lock()
	delete(r.scopes, s)
	r.mu.Unlock()
}
