package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"golang.org/x/sync/errgroup"
)

// TransactionsView is one published load of the transactions screen.
type TransactionsView struct {
	Filter       model.TransactionFilter
	Transactions []model.Transaction
	Categories   []model.Category
}

// Transactions is the container behind the transaction list.
type Transactions struct {
	txns       TransactionsAPI
	categories CategoryLister
	accounts   AccountLister
	logger     *slog.Logger
	view       TransactionsView
	gen        generation
}

// NewTransactions creates an empty transaction container.
func NewTransactions(txns TransactionsAPI, categories CategoryLister, accounts AccountLister, logger *slog.Logger) *Transactions {
	return &Transactions{
		txns:       txns,
		categories: categories,
		accounts:   accounts,
		logger:     common.Component(logger, "transactions"),
	}
}

// Load fetches transactions matching filter and the category list
// concurrently, and publishes both once both succeed.
func (t *Transactions) Load(ctx context.Context, filter model.TransactionFilter) (TransactionsView, error) {
	tag, err := t.gen.next()
	if err != nil {
		return TransactionsView{}, err
	}

	view := TransactionsView{Filter: filter}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := t.txns.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		view.Transactions = txns
		return nil
	})
	g.Go(func() error {
		cats, err := t.categories.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		view.Categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		t.gen.fail(tag, err)
		return TransactionsView{}, err
	}

	if err := t.gen.commit(tag, func() { t.view = view }); err != nil {
		t.logger.Debug("discarding stale transaction list", "generation", tag)
		return TransactionsView{}, err
	}
	return view.clone(), nil
}

// View returns the last published view.
func (t *Transactions) View() TransactionsView {
	t.gen.mu.Lock()
	defer t.gen.mu.Unlock()
	return t.view.clone()
}

// Accounts loads the account choices for the transaction form. Failures are
// logged and yield an empty list so the form stays usable.
func (t *Transactions) Accounts(ctx context.Context) []model.Account {
	accounts, err := t.accounts.List(ctx)
	if err != nil {
		t.logger.Warn("failed to load accounts for transaction form", "error", err)
		return []model.Account{}
	}
	return accounts
}

// LoadErr returns the failure of the latest load, including the reload after
// a mutation.
func (t *Transactions) LoadErr() error {
	return t.gen.err()
}

// Create adds a transaction and reloads with the current filter. A failed
// reload does not fail the create.
func (t *Transactions) Create(ctx context.Context, payload model.TransactionPayload) error {
	if _, err := t.txns.Create(ctx, payload); err != nil {
		return err
	}
	return t.reload(ctx)
}

// Update edits a transaction and reloads.
func (t *Transactions) Update(ctx context.Context, id model.ID, payload model.TransactionPayload) error {
	if _, err := t.txns.Update(ctx, id, payload); err != nil {
		return err
	}
	return t.reload(ctx)
}

// Delete removes a transaction and reloads.
func (t *Transactions) Delete(ctx context.Context, id model.ID) error {
	if err := t.txns.Delete(ctx, id); err != nil {
		return err
	}
	return t.reload(ctx)
}

// Submitter returns the submit function for a transaction form.
func (t *Transactions) Submitter(id model.ID) form.SubmitTransactionFunc {
	return func(ctx context.Context, payload model.TransactionPayload) error {
		if id.IsZero() {
			return t.Create(ctx, payload)
		}
		return t.Update(ctx, id, payload)
	}
}

// Close tears the container down.
func (t *Transactions) Close() {
	t.gen.close()
}

func (t *Transactions) reload(ctx context.Context) error {
	if _, err := t.Load(ctx, t.View().Filter); err != nil && !errors.Is(err, ErrStale) {
		t.logger.Warn("transaction list not refreshed after change", "error", err)
	}
	return nil
}

func (v TransactionsView) clone() TransactionsView {
	return TransactionsView{
		Filter:       v.Filter,
		Transactions: append([]model.Transaction(nil), v.Transactions...),
		Categories:   append([]model.Category(nil), v.Categories...),
	}
}
