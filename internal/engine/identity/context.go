package identity

import "context"

type scopeKey struct{}

// WithScope returns a child context carrying a fresh scope from the
// registry, plus the scope itself so the caller can defer Release.
func WithScope(ctx context.Context, registry *Registry) (context.Context, *Scope) {
	s := registry.Begin()
	return context.WithValue(ctx, scopeKey{}, s), s
}

// FromContext returns the scope carried by ctx, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// Get looks up key in the context's scope.
// Without a scope in ctx every lookup misses, which keeps code paths that
// run outside a unit of work (startup, background jobs) safe.
func Get(ctx context.Context, key Key) (any, bool) {
	s, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return s.Get(key)
}

// Put stores value in the context's scope.
// It is a no-op when ctx carries no scope.
func Put(ctx context.Context, key Key, value any) {
	if s, ok := FromContext(ctx); ok {
		s.Put(key, value)
	}
}

// Clear empties the context's scope. Safe to call at any time.
func Clear(ctx context.Context) {
	if s, ok := FromContext(ctx); ok {
		s.Clear()
	}
}
