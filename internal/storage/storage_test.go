package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSessionRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	snap := session.Snapshot{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &model.User{ID: "3", Name: "Caio", Email: "caio@example.com"},
	}
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	snap.AccessToken = "rotated"
	snap.User = nil
	require.NoError(t, store.Save(ctx, snap))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.AccessToken)
	assert.Nil(t, got.User)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestHostStore(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	prod := store.BindBaseURL("https://finance.example.com")
	local := store.BindBaseURL("http://localhost:8001")

	require.NoError(t, prod.Save(ctx, session.Snapshot{AccessToken: "prod-token"}))

	got, err := prod.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "prod-token", got.AccessToken)

	got, err = local.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty(), "session saved for another host must not leak")

	require.NoError(t, local.Clear(ctx))
	got, err = prod.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestSessionPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, session.Snapshot{AccessToken: "kept"}))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.AccessToken)
	assert.Equal(t, path, reopened.Path())
}

func TestSessionThroughSessionObject(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	s := session.New(store)
	require.NoError(t, s.Set(ctx, model.AuthResponse{AccessToken: "tok", User: model.User{ID: "1"}}))

	fresh := session.New(store)
	require.NoError(t, fresh.Load(ctx))
	assert.True(t, fresh.Authenticated())
	assert.Equal(t, model.ID("1"), fresh.User().ID)
}
