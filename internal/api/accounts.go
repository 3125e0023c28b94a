package api

import (
	"context"
	"errors"
	"net/url"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
)

// AccountsService manages balance-holding accounts.
type AccountsService struct {
	client *Client
}

// List returns every account. A 429 response is retried once after the
// client's retry delay; timeouts and other failures are returned as is.
func (s *AccountsService) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := common.WithRetry(ctx, func() error {
		accounts = nil
		return s.client.Get(ctx, "/accounts", nil, &accounts)
	}, common.RetryOptions{
		Logger:       s.client.logger,
		MaxAttempts:  2,
		InitialDelay: s.client.retryDelay,
		MaxDelay:     s.client.retryDelay,
		Retryable:    rateLimited,
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Create adds an account.
func (s *AccountsService) Create(ctx context.Context, payload model.AccountPayload) (*model.Account, error) {
	var account model.Account
	if err := s.client.Post(ctx, "/accounts", payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Update replaces the fields of an account.
func (s *AccountsService) Update(ctx context.Context, id model.ID, payload model.AccountPayload) (*model.Account, error) {
	var account model.Account
	if err := s.client.Put(ctx, "/accounts/"+url.PathEscape(id.String()), payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete removes an account.
func (s *AccountsService) Delete(ctx context.Context, id model.ID) error {
	return s.client.Delete(ctx, "/accounts/"+url.PathEscape(id.String()))
}

func rateLimited(err error) bool {
	return errors.Is(err, common.ErrRateLimit)
}
