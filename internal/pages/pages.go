// Package pages holds the data containers behind each screen. A container
// owns its list state, fetches through the API, and discards responses that
// arrive after a newer fetch was started or after it was closed.
package pages

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/finflow/internal/model"
)

// ErrStale is returned when a response was superseded by a newer fetch or
// the container was closed while the request was in flight.
var ErrStale = errors.New("stale response discarded")

// AccountsAPI is the account endpoint set used by the containers.
type AccountsAPI interface {
	List(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, payload model.AccountPayload) (*model.Account, error)
	Update(ctx context.Context, id model.ID, payload model.AccountPayload) (*model.Account, error)
	Delete(ctx context.Context, id model.ID) error
}

// AccountLister lists accounts.
type AccountLister interface {
	List(ctx context.Context) ([]model.Account, error)
}

// TransactionsAPI is the transaction endpoint set.
type TransactionsAPI interface {
	List(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
	Create(ctx context.Context, payload model.TransactionPayload) (*model.Transaction, error)
	Update(ctx context.Context, id model.ID, payload model.TransactionPayload) (*model.Transaction, error)
	Delete(ctx context.Context, id model.ID) error
}

// CategoriesAPI is the category endpoint set.
type CategoriesAPI interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, payload model.CategoryPayload) (*model.Category, error)
	Update(ctx context.Context, id model.ID, payload model.CategoryPayload) (*model.Category, error)
	Delete(ctx context.Context, id model.ID) error
}

// CategoryLister lists categories.
type CategoryLister interface {
	List(ctx context.Context) ([]model.Category, error)
}

// DashboardAPI reads the monthly summary.
type DashboardAPI interface {
	Get(ctx context.Context, month, year int) (*model.DashboardData, error)
}

// generation tags fetches so that only the latest one may publish.
type generation struct {
	loadErr error
	current uint64
	closed  bool
	mu      sync.Mutex
}

// next starts a fetch and returns its tag.
func (g *generation) next() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, ErrStale
	}
	g.current++
	return g.current, nil
}

// commit runs publish only when tag is still the latest fetch of an open
// container.
func (g *generation) commit(tag uint64, publish func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || tag != g.current {
		return ErrStale
	}
	publish()
	g.loadErr = nil
	return nil
}

// fail records err as the outcome of fetch tag when it is still the latest.
func (g *generation) fail(tag uint64, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed && tag == g.current {
		g.loadErr = err
	}
}

// err returns the failure of the latest fetch, nil once a fetch publishes.
func (g *generation) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadErr
}

func (g *generation) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}
