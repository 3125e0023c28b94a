// Package session holds the signed-in user's credentials and keeps them in
// sync with a Store.
package session

import (
	"context"
	"sync"

	"github.com/Veraticus/finflow/internal/model"
)

// Snapshot is the persisted form of a session.
type Snapshot struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// Empty reports whether the snapshot carries no credentials.
func (s Snapshot) Empty() bool {
	return s.AccessToken == ""
}

// Store persists a session snapshot.
type Store interface {
	// Load returns the stored snapshot, or an empty one when nothing is stored.
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the snapshot for the lifetime of the process.
type MemoryStore struct {
	snap Snapshot
	mu   sync.Mutex
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{}
	return nil
}
