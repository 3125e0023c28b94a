package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "7", ExpiresAt: jwt.NewNumericDate(exp)}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func newSession(t *testing.T, snap Snapshot) (*Session, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), snap))
	s := New(store, WithClock(func() time.Time { return epoch }), WithLogger(common.DiscardLogger()))
	require.NoError(t, s.Load(context.Background()))
	return s, store
}

func TestSessionEmpty(t *testing.T) {
	s, _ := newSession(t, Snapshot{})

	_, err := s.Token()
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
}

func TestSessionSetAndClear(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t, Snapshot{})

	cleared := 0
	s.OnClear(func() { cleared++ })

	err := s.Set(ctx, model.AuthResponse{
		AccessToken:  "opaque-token",
		RefreshToken: "refresh",
		User:         model.User{ID: "1", Name: "Ana", Email: "ana@example.com"},
	})
	require.NoError(t, err)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Expiry.IsZero())
	assert.Equal(t, "Ana", s.User().Name)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh", persisted.RefreshToken)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
	assert.Equal(t, 1, cleared)

	persisted, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.Empty())

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 1, cleared, "clearing an empty session does not fire hooks")
}

func TestSessionSetRejectsEmptyToken(t *testing.T) {
	s, _ := newSession(t, Snapshot{})
	err := s.Set(context.Background(), model.AuthResponse{})
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestSessionJWTExpiry(t *testing.T) {
	exp := epoch.Add(time.Hour).Truncate(time.Second)
	s, _ := newSession(t, Snapshot{AccessToken: signedToken(t, exp)})

	tok, err := s.Token()
	require.NoError(t, err)
	assert.True(t, exp.Equal(tok.Expiry))
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("expired jwt cleared without calling server", func(t *testing.T) {
		s, store := newSession(t, Snapshot{AccessToken: signedToken(t, epoch.Add(-time.Minute))})
		called := false

		user, err := s.Restore(ctx, func(context.Context) (*model.User, error) {
			called = true
			return nil, nil
		})

		assert.ErrorIs(t, err, common.ErrSessionExpired)
		assert.Nil(t, user)
		assert.False(t, called)
		assert.False(t, s.Authenticated())
		snap, _ := store.Load(ctx)
		assert.True(t, snap.Empty())
	})

	t.Run("valid jwt confirmed by server", func(t *testing.T) {
		s, store := newSession(t, Snapshot{AccessToken: signedToken(t, epoch.Add(time.Hour))})

		user, err := s.Restore(ctx, func(context.Context) (*model.User, error) {
			return &model.User{ID: "7", Name: "Bia"}, nil
		})

		require.NoError(t, err)
		assert.Equal(t, "Bia", user.Name)
		assert.Equal(t, "Bia", s.User().Name)
		snap, _ := store.Load(ctx)
		require.NotNil(t, snap.User)
		assert.Equal(t, "Bia", snap.User.Name)
	})

	t.Run("opaque token rejected by server", func(t *testing.T) {
		s, _ := newSession(t, Snapshot{AccessToken: "opaque"})
		rejected := errors.New("unauthorized")

		_, err := s.Restore(ctx, func(context.Context) (*model.User, error) {
			return nil, rejected
		})

		assert.ErrorIs(t, err, common.ErrSessionExpired)
		assert.ErrorIs(t, err, rejected)
		assert.False(t, s.Authenticated())
	})

	t.Run("nothing stored", func(t *testing.T) {
		s, _ := newSession(t, Snapshot{})
		_, err := s.Restore(ctx, func(context.Context) (*model.User, error) {
			t.Fatal("validator must not be called")
			return nil, nil
		})
		assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	})
}

func TestTokenExpiry(t *testing.T) {
	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
	assert.True(t, tokenExpiry("").IsZero())

	exp := epoch.Add(24 * time.Hour)
	assert.True(t, exp.Equal(tokenExpiry(signedToken(t, exp))))
}
