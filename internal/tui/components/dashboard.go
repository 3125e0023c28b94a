package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	recentLimit = 5
	barWidth    = 20
)

// DashboardPanel renders a loaded dashboard: headline cards, recent
// transactions and the expense breakdown.
type DashboardPanel struct {
	format money.Formatter
	theme  themes.Theme
	view   pages.DashboardView
	width  int
	loaded bool
}

// NewDashboardPanel creates an empty panel.
func NewDashboardPanel(format money.Formatter, theme themes.Theme) DashboardPanel {
	return DashboardPanel{format: format, theme: theme, width: 80}
}

// SetView replaces the rendered dashboard.
func (p *DashboardPanel) SetView(view pages.DashboardView) {
	p.view = view
	p.loaded = true
}

// Resize sets the panel width.
func (p *DashboardPanel) Resize(width int) {
	p.width = max(40, width)
}

// View renders the panel.
func (p DashboardPanel) View() string {
	title := p.theme.Title.Render(fmt.Sprintf("Dashboard · %s %d", money.MonthName(p.view.Month), p.view.Year))
	if !p.loaded {
		return title + "\n" + lipgloss.NewStyle().Foreground(p.theme.Muted).Render("Loading...")
	}

	d := p.view.Display(p.format)
	net := p.view.Income().Sub(p.view.Expense())

	cardWidth := max(16, (p.width-8)/4)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		p.card("Total balance", p.theme.Money(d.TotalBalance, p.view.TotalBalance.IsNegative()), cardWidth),
		p.card("Income", p.theme.Income.Render(d.Income), cardWidth),
		p.card("Expense", p.theme.Expense.Render(d.Expense), cardWidth),
		p.card("Net", p.theme.Money(d.Net, net.IsNegative()), cardWidth),
	)

	pending := lipgloss.NewStyle().Foreground(p.theme.Muted).
		Render(fmt.Sprintf("%d pending transactions", d.Pending))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		cards,
		pending,
		"",
		p.renderRecent(),
		"",
		p.renderBreakdown(),
	)
}

func (p DashboardPanel) card(label, value string, width int) string {
	return p.theme.RoundedBox.
		Padding(0, 1).
		Width(width).
		Render(lipgloss.NewStyle().Foreground(p.theme.Muted).Render(label) + "\n" + value)
}

func (p DashboardPanel) renderRecent() string {
	lines := []string{p.theme.Bold.Render("Recent transactions")}
	recent := p.view.Summary.RecentTransactions
	if len(recent) == 0 {
		return lines[0] + "\n" + lipgloss.NewStyle().Foreground(p.theme.Muted).Render("Nothing this month.")
	}
	for _, txn := range recent[:min(recentLimit, len(recent))] {
		amount := p.format(decimal.NewFromFloat(txn.SignedAmount()))
		lines = append(lines, fmt.Sprintf("%s  %-30s %s",
			money.FormatDate(txn.DateOnly()),
			truncate(txn.Description, 30),
			p.theme.Money(amount, txn.Type == model.TypeExpense)))
	}
	return strings.Join(lines, "\n")
}

func (p DashboardPanel) renderBreakdown() string {
	items := p.view.Summary.ExpenseByCategory
	if len(items) == 0 {
		return ""
	}

	top := 0.0
	for _, item := range items {
		top = max(top, item.Value)
	}

	lines := []string{p.theme.Bold.Render("Expenses by category")}
	for _, item := range items {
		filled := 0
		if top > 0 {
			filled = int(item.Value / top * barWidth)
		}
		bar := p.theme.ProgressFull.Render(strings.Repeat("█", filled)) +
			p.theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%-18s %s %s",
			truncate(item.Name, 18), bar, p.format(decimal.NewFromFloat(item.Value))))
	}
	return strings.Join(lines, "\n")
}
