package tui

import (
	"context"

	"github.com/Veraticus/finflow/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// loadDashboard fetches the dashboard for the current period.
func (m Model) loadDashboard() tea.Cmd {
	ctx, page, month, year := m.ctx, m.pages.Dashboard, m.month, m.year
	return func() tea.Msg {
		view, err := page.Load(ctx, month, year)
		return dashboardLoadedMsg{view: view, err: err}
	}
}

// loadTransactions fetches the transaction list for the current filter.
func (m Model) loadTransactions() tea.Cmd {
	ctx, page, filter := m.ctx, m.pages.Transactions, m.filter()
	return func() tea.Msg {
		view, err := page.Load(ctx, filter)
		return transactionsLoadedMsg{view: view, err: err}
	}
}

// loadAccounts fetches the account cards.
func (m Model) loadAccounts() tea.Cmd {
	ctx, page := m.ctx, m.pages.Accounts
	return func() tea.Msg {
		accounts, err := page.Load(ctx)
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

// loadFormAccounts fills the account selector of the transaction form.
// Failures yield an empty selector.
func (m Model) loadFormAccounts() tea.Cmd {
	ctx, page := m.ctx, m.pages.Transactions
	return func() tea.Msg {
		return formAccountsMsg{accounts: page.Accounts(ctx)}
	}
}

// reloadScreen refreshes the data behind screen.
func (m Model) reloadScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenTransactions:
		return m.loadTransactions()
	case ScreenAccounts:
		return m.loadAccounts()
	default:
		return m.loadDashboard()
	}
}

// runDelete executes a confirmed deletion.
func (m Model) runDelete(req deleteRequest) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutationDoneMsg{err: req.run(ctx), screen: req.screen, what: "Deleted " + req.label}
	}
}

// toggleAccount flips an account between active and inactive.
func (m Model) toggleAccount(acc model.Account) tea.Cmd {
	ctx, page := m.ctx, m.pages.Accounts
	payload := model.AccountPayload{
		Name:           acc.Name,
		Type:           acc.Type,
		Institution:    acc.Institution,
		Color:          acc.Color,
		Icon:           acc.Icon,
		InitialBalance: acc.InitialBalance,
		IsActive:       !acc.IsActive,
	}
	what := "Deactivated " + acc.Name
	if payload.IsActive {
		what = "Activated " + acc.Name
	}
	return func() tea.Msg {
		return mutationDoneMsg{err: page.Update(ctx, acc.ID, payload), screen: ScreenAccounts, what: what}
	}
}

func deleteTransaction(m Model, txn model.Transaction) deleteRequest {
	page := m.pages.Transactions
	return deleteRequest{
		run:    func(ctx context.Context) error { return page.Delete(ctx, txn.ID) },
		label:  txn.Description,
		screen: ScreenTransactions,
	}
}

func deleteAccount(m Model, acc model.Account) deleteRequest {
	page := m.pages.Accounts
	return deleteRequest{
		run:    func(ctx context.Context) error { return page.Delete(ctx, acc.ID) },
		label:  acc.Name,
		screen: ScreenAccounts,
	}
}
