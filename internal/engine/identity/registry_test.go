package identity_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/idmap/internal/engine/identity"
)

func TestRegistry_BeginRelease(t *testing.T) {
	r := identity.NewRegistry()

	s1 := r.Begin()
	s2 := r.Begin()
	assert.Equal(t, 2, r.Len())

	s1.Release()
	assert.Equal(t, 1, r.Len())

	// Release is idempotent; releasing twice does not disturb other scopes.
	s1.Release()
	assert.Equal(t, 1, r.Len())

	s2.Release()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReleaseClearsEntries(t *testing.T) {
	r := identity.NewRegistry()

	s := r.Begin()
	key := identity.NewKey("users", "1")
	s.Put(key, "userA")

	s.Release()

	_, ok := s.Get(key)
	assert.False(t, ok)
}

func TestRegistry_ClearAll(t *testing.T) {
	t.Run("clears every live scope", func(t *testing.T) {
		r := identity.NewRegistry()

		s1 := r.Begin()
		s2 := r.Begin()
		s1.Put(identity.NewKey("users", "1"), "a")
		s2.Put(identity.NewKey("orders", "7"), "b")

		cleared := r.ClearAll()
		assert.Equal(t, 2, cleared)

		_, ok := s1.Get(identity.NewKey("users", "1"))
		assert.False(t, ok)
		_, ok = s2.Get(identity.NewKey("orders", "7"))
		assert.False(t, ok)

		// Scopes stay live and usable after a reload clear.
		assert.Equal(t, 2, r.Len())
	})

	t.Run("safe with no live scopes", func(t *testing.T) {
		r := identity.NewRegistry()
		assert.Equal(t, 0, r.ClearAll())
	})
}

// TestRegistry_ScopeIsolation is the two-context scenario: a value put on
// one scope must never be visible through another.
func TestRegistry_ScopeIsolation(t *testing.T) {
	r := identity.NewRegistry()
	key := identity.NewKey("orders", "7")

	s1 := r.Begin()
	defer s1.Release()
	s1.Put(key, "o7")

	s2 := r.Begin()
	defer s2.Release()

	_, ok := s2.Get(key)
	assert.False(t, ok, "scope contents must not leak across contexts")

	got, ok := s1.Get(key)
	require.True(t, ok)
	assert.Equal(t, "o7", got)
}

// TestRegistry_ConcurrentContexts runs many units of work in parallel, each
// putting its own value under the same key and reading it back.
func TestRegistry_ConcurrentContexts(t *testing.T) {
	r := identity.NewRegistry()
	key := identity.NewKey("users", "1")

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s := r.Begin()
			defer s.Release()

			want := i
			s.Put(key, want)

			got, ok := s.Get(key)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}
