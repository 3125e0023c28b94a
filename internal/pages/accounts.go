package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/shopspring/decimal"
)

// AccountTotals are the balance sums shown above the account list.
type AccountTotals struct {
	Current   decimal.Decimal
	Projected decimal.Decimal
}

// Accounts is the container behind the account list.
type Accounts struct {
	api      AccountsAPI
	logger   *slog.Logger
	accounts []model.Account
	gen      generation
}

// NewAccounts creates an empty account container.
func NewAccounts(api AccountsAPI, logger *slog.Logger) *Accounts {
	return &Accounts{api: api, logger: common.Component(logger, "accounts")}
}

// Load fetches the account list and publishes it.
func (a *Accounts) Load(ctx context.Context) ([]model.Account, error) {
	tag, err := a.gen.next()
	if err != nil {
		return nil, err
	}

	accounts, err := a.api.List(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load accounts: %w", err)
		a.gen.fail(tag, err)
		return nil, err
	}

	if err := a.gen.commit(tag, func() { a.accounts = accounts }); err != nil {
		a.logger.Debug("discarding stale account list", "generation", tag)
		return nil, err
	}
	return cloneAccounts(accounts), nil
}

// Items returns the last published account list.
func (a *Accounts) Items() []model.Account {
	a.gen.mu.Lock()
	defer a.gen.mu.Unlock()
	return cloneAccounts(a.accounts)
}

// Totals sums active accounts other than credit cards. Projected falls back
// to the current balance for accounts without a projection.
func (a *Accounts) Totals() AccountTotals {
	return AccountTotalsOf(a.Items())
}

// AccountTotalsOf computes AccountTotals for a list.
func AccountTotalsOf(accounts []model.Account) AccountTotals {
	totals := AccountTotals{Current: decimal.Zero, Projected: decimal.Zero}
	for _, acc := range accounts {
		if !acc.IsActive || acc.Type == model.AccountCreditCard {
			continue
		}
		totals.Current = totals.Current.Add(decimal.NewFromFloat(acc.CurrentBalance))
		totals.Projected = totals.Projected.Add(decimal.NewFromFloat(acc.ProjectedOrCurrent()))
	}
	return totals
}

// LoadErr returns the failure of the latest load, including the reload after
// a mutation. It is nil once a load publishes.
func (a *Accounts) LoadErr() error {
	return a.gen.err()
}

// Create adds an account and reloads the list. Once the server accepts the
// account the call succeeds; a failed reload is only kept in LoadErr.
func (a *Accounts) Create(ctx context.Context, payload model.AccountPayload) error {
	if _, err := a.api.Create(ctx, payload); err != nil {
		return err
	}
	return a.reload(ctx)
}

// Update edits an account and reloads the list.
func (a *Accounts) Update(ctx context.Context, id model.ID, payload model.AccountPayload) error {
	if _, err := a.api.Update(ctx, id, payload); err != nil {
		return err
	}
	return a.reload(ctx)
}

// Delete removes an account and reloads the list.
func (a *Accounts) Delete(ctx context.Context, id model.ID) error {
	if err := a.api.Delete(ctx, id); err != nil {
		return err
	}
	return a.reload(ctx)
}

// Submitter returns the submit function for an account form, creating when
// id is zero and updating otherwise.
func (a *Accounts) Submitter(id model.ID) form.SubmitAccountFunc {
	return func(ctx context.Context, payload model.AccountPayload) error {
		if id.IsZero() {
			return a.Create(ctx, payload)
		}
		return a.Update(ctx, id, payload)
	}
}

// Close tears the container down; in-flight responses are discarded.
func (a *Accounts) Close() {
	a.gen.close()
}

// reload refreshes after a mutation. A superseded reload is not an error:
// the newer fetch publishes instead.
func (a *Accounts) reload(ctx context.Context) error {
	if _, err := a.Load(ctx); err != nil && !errors.Is(err, ErrStale) {
		a.logger.Warn("account list not refreshed after change", "error", err)
	}
	return nil
}

func cloneAccounts(in []model.Account) []model.Account {
	if in == nil {
		return nil
	}
	return append([]model.Account(nil), in...)
}
