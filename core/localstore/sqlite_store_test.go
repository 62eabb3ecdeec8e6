package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SetThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "teams", `[{"id":"team-a"}]`))

	value, ok, err := store.Get(ctx, "teams")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"team-a"}]`, value)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "language", "en"))
	require.NoError(t, store.Set(ctx, "language", "vi"))

	value, ok, err := store.Get(ctx, "language")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "vi", value)
}

func TestSQLiteStore_Remove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "currentTeamId", "team-a"))
	require.NoError(t, store.Remove(ctx, "currentTeamId"))

	_, ok, err := store.Get(ctx, "currentTeamId")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing an absent key is not an error
	assert.NoError(t, store.Remove(ctx, "currentTeamId"))
}

func TestSQLiteStore_MultiRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))
	require.NoError(t, store.Set(ctx, "c", "3"))

	require.NoError(t, store.MultiRemove(ctx, []string{"a", "c", "absent"}))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "c")
	assert.False(t, ok)
}

func TestSQLiteStore_MultiRemoveEmptyList(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.MultiRemove(context.Background(), nil))
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))
	require.NoError(t, store.Clear(ctx))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.False(t, ok)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "teams", `[{"id":"team-a"}]`))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "teams")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"team-a"}]`, value)
}
