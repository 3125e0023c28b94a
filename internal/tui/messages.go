package tui

import (
	"context"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/pages"
)

// Data loading messages.
type dashboardLoadedMsg struct {
	err  error
	view pages.DashboardView
}

type transactionsLoadedMsg struct {
	err  error
	view pages.TransactionsView
}

type accountsLoadedMsg struct {
	err      error
	accounts []model.Account
}

// formAccountsMsg fills the account selector of an open transaction form.
type formAccountsMsg struct {
	accounts []model.Account
}

// mutationDoneMsg reports a delete or toggle issued from a list.
type mutationDoneMsg struct {
	err    error
	screen Screen
	what   string
}

// deleteRequest is a deletion awaiting confirmation.
type deleteRequest struct {
	run    func(ctx context.Context) error
	label  string
	screen Screen
}
