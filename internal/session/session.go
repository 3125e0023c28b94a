package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Validator confirms a token with the server and returns its user.
type Validator func(ctx context.Context) (*model.User, error)

// Session is the explicit credential context shared by the API client and
// the UI. It is safe for concurrent use.
type Session struct {
	store   Store
	logger  *slog.Logger
	now     func() time.Time
	token   *oauth2.Token
	user    *model.User
	cleared []func()
	mu      sync.RWMutex
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock sets the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session backed by store. Call Load to read persisted state.
func New(store Store, opts ...Option) *Session {
	s := &Session{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = common.Component(s.logger, "session")
	return s
}

// Load reads the persisted snapshot into memory.
func (s *Session) Load(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(snap)
	return nil
}

func (s *Session) apply(snap Snapshot) {
	if snap.Empty() {
		s.token = nil
		s.user = nil
		return
	}
	s.token = &oauth2.Token{
		AccessToken:  snap.AccessToken,
		RefreshToken: snap.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       tokenExpiry(snap.AccessToken),
	}
	s.user = snap.User
}

// Token implements oauth2.TokenSource. It returns ErrNotAuthenticated when
// nobody is signed in.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, common.ErrNotAuthenticated
	}
	t := *s.token
	return &t, nil
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

// User returns a copy of the cached user, or nil.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Set stores the credentials returned by login or registration.
func (s *Session) Set(ctx context.Context, resp model.AuthResponse) error {
	if resp.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", common.ErrNotAuthenticated)
	}
	snap := Snapshot{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if resp.User.ID != "" || resp.User.Email != "" {
		u := resp.User
		snap.User = &u
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.apply(snap)
	s.mu.Unlock()

	s.logger.Debug("session stored", "user", snap.User != nil)
	return nil
}

// SetUser replaces the cached user while keeping the token.
func (s *Session) SetUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	if s.token == nil {
		s.mu.Unlock()
		return common.ErrNotAuthenticated
	}
	s.user = &user
	snap := Snapshot{AccessToken: s.token.AccessToken, RefreshToken: s.token.RefreshToken, User: &user}
	s.mu.Unlock()

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// OnClear registers fn to run whenever the session is cleared.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, fn)
}

// Clear drops the token, refresh token, and cached user from memory and the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	had := s.token != nil
	s.token = nil
	s.user = nil
	hooks := append([]func(){}, s.cleared...)
	s.mu.Unlock()

	err := s.store.Clear(ctx)
	if err != nil {
		err = fmt.Errorf("failed to clear session: %w", err)
	}
	if had {
		s.logger.Info("session cleared")
		for _, fn := range hooks {
			fn()
		}
	}
	return err
}

// Restore checks a loaded token before use. An expired JWT is dropped
// without contacting the server; any other token is confirmed through
// validate and dropped when that fails.
func (s *Session) Restore(ctx context.Context, validate Validator) (*model.User, error) {
	tok, err := s.Token()
	if err != nil {
		return nil, err
	}

	if !tok.Expiry.IsZero() && !tok.Expiry.After(s.now()) {
		s.logger.Info("stored token expired", "expiry", tok.Expiry)
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.logger.Warn("failed to clear expired session", "error", clearErr)
		}
		return nil, common.ErrSessionExpired
	}

	user, err := validate(ctx)
	if err != nil {
		s.logger.Info("stored token rejected", "error", err)
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.logger.Warn("failed to clear rejected session", "error", clearErr)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrSessionExpired, err)
	}

	if user != nil {
		if err := s.SetUser(ctx, *user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// Opaque tokens and tokens without exp yield the zero time.
func tokenExpiry(raw string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
