package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/idmap/internal/adapters/store"
	"go.trai.ch/idmap/internal/core/domain"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	doc := domain.NewDocument("users", "1")
	doc.Body["name"] = "ada"
	doc.Body["age"] = float64(36)

	require.NoError(t, s.Save(ctx, doc))

	loaded, err := s.Load(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, "users", loaded.Collection)
	assert.Equal(t, "1", loaded.ID)
	assert.Equal(t, "ada", loaded.Body["name"])
	assert.Equal(t, float64(36), loaded.Body["age"])
	assert.False(t, loaded.LoadedAt.IsZero())
}

func TestStore_Load_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load(t.Context(), "users", "missing")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestStore_Save_Upsert(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	doc := domain.NewDocument("users", "1")
	doc.Body["name"] = "ada"
	require.NoError(t, s.Save(ctx, doc))

	doc.Body["name"] = "grace"
	require.NoError(t, s.Save(ctx, doc))

	loaded, err := s.Load(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, "grace", loaded.Body["name"])
}

func TestStore_CollectionsDoNotCollide(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	user := domain.NewDocument("users", "1")
	user.Body["kind"] = "user"
	require.NoError(t, s.Save(ctx, user))

	order := domain.NewDocument("orders", "1")
	order.Body["kind"] = "order"
	require.NoError(t, s.Save(ctx, order))

	loaded, err := s.Load(ctx, "orders", "1")
	require.NoError(t, err)
	assert.Equal(t, "order", loaded.Body["kind"])
}

func TestStore_Open_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.db")

	s1, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Ping(t.Context()))
	require.NoError(t, s2.Close())
}

func TestDisabled(t *testing.T) {
	var d store.Disabled
	ctx := t.Context()

	_, err := d.Load(ctx, "users", "1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, d.Save(ctx, domain.NewDocument("users", "1")), domain.ErrStoreUnavailable)
	assert.ErrorIs(t, d.Ping(ctx), domain.ErrStoreUnavailable)
	assert.NoError(t, d.Close())
}
