package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DashboardView is a loaded dashboard.
type DashboardView struct {
	Summary      model.DashboardData
	Accounts     []model.Account
	TotalBalance decimal.Decimal
	Month        int
	Year         int
}

// DashboardDisplay holds the formatted headline figures.
type DashboardDisplay struct {
	TotalBalance string
	Income       string
	Expense      string
	Net          string
	Pending      int
}

// Income returns the month's income from the summary.
func (v DashboardView) Income() decimal.Decimal {
	return decimal.NewFromFloat(v.Summary.TotalIncome)
}

// Expense returns the month's expense from the summary.
func (v DashboardView) Expense() decimal.Decimal {
	return decimal.NewFromFloat(v.Summary.TotalExpense)
}

// Display formats the headline figures with format.
func (v DashboardView) Display(format money.Formatter) DashboardDisplay {
	return DashboardDisplay{
		TotalBalance: format(v.TotalBalance),
		Income:       format(v.Income()),
		Expense:      format(v.Expense()),
		Net:          format(v.Income().Sub(v.Expense())),
		Pending:      v.Summary.PendingTransactions,
	}
}

// Dashboard is the container behind the dashboard screen.
type Dashboard struct {
	summary  DashboardAPI
	accounts AccountLister
	logger   *slog.Logger
	view     DashboardView
	gen      generation
}

// NewDashboard creates an empty dashboard container.
func NewDashboard(summary DashboardAPI, accounts AccountLister, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		summary:  summary,
		accounts: accounts,
		logger:   common.Component(logger, "dashboard"),
	}
}

// Load fetches the summary and the account list concurrently. The total
// balance is the sum of active accounts' current balances; everything else
// comes from the summary as computed by the server.
func (d *Dashboard) Load(ctx context.Context, month, year int) (DashboardView, error) {
	tag, err := d.gen.next()
	if err != nil {
		return DashboardView{}, err
	}

	view := DashboardView{Month: month, Year: year}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := d.summary.Get(gctx, month, year)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}
		view.Summary = *summary
		return nil
	})
	g.Go(func() error {
		accounts, err := d.accounts.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to load accounts: %w", err)
		}
		view.Accounts = accounts
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}

	view.TotalBalance = ActiveBalance(view.Accounts)

	if err := d.gen.commit(tag, func() { d.view = view }); err != nil {
		d.logger.Debug("discarding stale dashboard", "generation", tag)
		return DashboardView{}, err
	}
	return view, nil
}

// View returns the last published dashboard.
func (d *Dashboard) View() DashboardView {
	d.gen.mu.Lock()
	defer d.gen.mu.Unlock()
	return d.view
}

// Close tears the container down.
func (d *Dashboard) Close() {
	d.gen.close()
}

// ActiveBalance sums the current balance of every active account.
func ActiveBalance(accounts []model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		if acc.IsActive {
			total = total.Add(decimal.NewFromFloat(acc.CurrentBalance))
		}
	}
	return total
}
