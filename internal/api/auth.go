package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Veraticus/finflow/internal/model"
)

// AuthService covers login, registration, and per-user settings.
type AuthService struct {
	client *Client
}

// Login exchanges credentials for a token and stores it in the session.
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	return s.authenticate(ctx, "/auth/login", creds)
}

// Register creates a user and signs in as them.
func (s *AuthService) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	return s.authenticate(ctx, "/auth/register", reg)
}

func (s *AuthService) authenticate(ctx context.Context, path string, body any) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := s.client.Post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	if err := s.client.session.Set(ctx, resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the local session. The API keeps no server-side session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.session.Clear(ctx)
}

// Me returns the user the current token belongs to.
func (s *AuthService) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := s.client.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Restore validates a persisted session against the server.
func (s *AuthService) Restore(ctx context.Context) (*model.User, error) {
	return s.client.session.Restore(ctx, s.Me)
}

// ForgotPassword asks the server to email a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// Settings returns the stored user preferences.
func (s *AuthService) Settings(ctx context.Context) (model.Settings, error) {
	settings := model.Settings{}
	if err := s.client.Get(ctx, "/auth/settings", nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings replaces the stored user preferences.
func (s *AuthService) UpdateSettings(ctx context.Context, settings model.Settings) error {
	return s.client.Put(ctx, "/auth/settings", settings, nil)
}

// ExportBackup downloads every record owned by the user as raw JSON.
func (s *AuthService) ExportBackup(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/auth/backup/export", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ImportBackup restores a backup produced by ExportBackup.
func (s *AuthService) ImportBackup(ctx context.Context, backup json.RawMessage) error {
	if !json.Valid(backup) {
		return errors.New("backup is not valid JSON")
	}
	return s.client.Post(ctx, "/auth/backup/import", backup, nil)
}
