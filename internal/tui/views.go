package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	var body string
	switch m.state {
	case StateHelp:
		body = m.renderHelp()
	case StateTransactionForm:
		body = m.place(m.txnForm.View())
	case StateAccountForm:
		body = m.place(m.accountForm.View())
	case StateConfirmDelete:
		body = m.place(m.renderConfirm())
	default:
		body = m.renderScreen()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		"",
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("finflow"),
		lipgloss.NewStyle().Foreground(m.theme.Primary).Render(m.spinner.View()),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Loading your finances..."),
	)
	if m.lastError != nil {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "",
			m.theme.StatusError.Render(form.ErrorMessage(m.lastError)))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderTabs draws the screen tabs, the period and the signed-in user on a
// single row.
func (m Model) renderTabs() string {
	tabs := make([]string, 0, screenCount)
	for s := Screen(0); s < screenCount; s++ {
		label := fmt.Sprintf(" %d %s ", int(s)+1, s)
		if s == m.screen {
			tabs = append(tabs, m.theme.Selected.Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(m.theme.Muted).Render(label))
		}
	}
	left := strings.Join(tabs, " ")

	right := fmt.Sprintf("%s %d", money.MonthName(m.month), m.year)
	if m.config.UserName != "" {
		right = m.config.UserName + " · " + right
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + lipgloss.NewStyle().Foreground(m.theme.Secondary).Render(right)
}

func (m Model) renderScreen() string {
	switch m.screen {
	case ScreenTransactions:
		return m.transactionList.View()
	case ScreenAccounts:
		return m.accountList.View()
	default:
		return m.dashboard.View()
	}
}

func (m Model) renderConfirm() string {
	label := ""
	if m.pendingDelete != nil {
		label = m.pendingDelete.label
	}
	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.StatusWarning.Render("Delete "+fmt.Sprintf("%q", label)+"?"),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[y] Delete  [n/Esc] Keep"),
	))
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Keyboard shortcuts"),
		h.View(m.keymap),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Press any key to return"),
	))
}

func (m Model) renderStatusBar() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + form.ErrorMessage(m.lastError))
	case m.status != "":
		return m.theme.StatusSuccess.Render("✓ " + m.status)
	default:
		return m.help.View(m.keymap)
	}
}

// place centers a dialog in the body area.
func (m Model) place(dialog string) string {
	return lipgloss.Place(m.width, max(lipgloss.Height(dialog), m.height-bodyTop-1), lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) transactionsTitle() string {
	title := fmt.Sprintf("Transactions · %s %d", money.MonthName(m.month), m.year)
	switch m.typeFilter {
	case model.TypeIncome:
		title += " · income"
	case model.TypeExpense:
		title += " · expense"
	}
	return title
}
