package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/session"
)

var _ session.Store = (*SQLiteStore)(nil)

// BindBaseURL scopes the stored session to an API host. A session saved for
// another host loads as empty.
func (s *SQLiteStore) BindBaseURL(baseURL string) *HostStore {
	return &HostStore{store: s, baseURL: baseURL}
}

// Load implements session.Store, ignoring the host a session was saved for.
func (s *SQLiteStore) Load(ctx context.Context) (session.Snapshot, error) {
	snap, _, err := s.load(ctx)
	return snap, err
}

// Save implements session.Store.
func (s *SQLiteStore) Save(ctx context.Context, snap session.Snapshot) error {
	return s.save(ctx, snap, "")
}

// Clear implements session.Store.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) load(ctx context.Context) (session.Snapshot, string, error) {
	var (
		snap     session.Snapshot
		userJSON sql.NullString
		baseURL  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, user_json, base_url FROM session WHERE id = 1`,
	).Scan(&snap.AccessToken, &snap.RefreshToken, &userJSON, &baseURL)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, "", nil
	}
	if err != nil {
		return session.Snapshot{}, "", fmt.Errorf("failed to load session: %w", err)
	}

	if userJSON.Valid && userJSON.String != "" {
		var user model.User
		if err := json.Unmarshal([]byte(userJSON.String), &user); err != nil {
			return session.Snapshot{}, "", fmt.Errorf("failed to decode cached user: %w", err)
		}
		snap.User = &user
	}
	return snap, baseURL, nil
}

func (s *SQLiteStore) save(ctx context.Context, snap session.Snapshot, baseURL string) error {
	var userJSON sql.NullString
	if snap.User != nil {
		data, err := json.Marshal(snap.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		userJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, refresh_token, user_json, base_url, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			user_json = excluded.user_json,
			base_url = excluded.base_url,
			updated_at = CURRENT_TIMESTAMP`,
		snap.AccessToken, snap.RefreshToken, userJSON, baseURL)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// HostStore is a session.Store bound to one API host.
type HostStore struct {
	store   *SQLiteStore
	baseURL string
}

var _ session.Store = (*HostStore)(nil)

// Load implements session.Store.
func (h *HostStore) Load(ctx context.Context) (session.Snapshot, error) {
	snap, baseURL, err := h.store.load(ctx)
	if err != nil {
		return session.Snapshot{}, err
	}
	if baseURL != "" && baseURL != h.baseURL {
		return session.Snapshot{}, nil
	}
	return snap, nil
}

// Save implements session.Store.
func (h *HostStore) Save(ctx context.Context, snap session.Snapshot) error {
	return h.store.save(ctx, snap, h.baseURL)
}

// Clear implements session.Store.
func (h *HostStore) Clear(ctx context.Context) error {
	return h.store.Clear(ctx)
}
