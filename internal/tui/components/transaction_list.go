package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// ListMode represents the current mode of the list.
type ListMode int

// List modes.
const (
	ModeNormal ListMode = iota
	ModeSearch
)

// TransactionListModel manages the transaction list view.
type TransactionListModel struct {
	format       money.Formatter
	theme        themes.Theme
	search       string
	title        string
	categories   []model.Category
	transactions []model.Transaction
	filtered     []model.Transaction
	searchInput  textinput.Model
	table        table.Model
	mode         ListMode
	width        int
	height       int
}

// NewTransactionList creates a new transaction list.
func NewTransactionList(format money.Formatter, theme themes.Theme) TransactionListModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search transactions..."
	searchInput.CharLimit = 50

	m := TransactionListModel{
		format:      format,
		theme:       theme,
		title:       "Transactions",
		table:       t,
		searchInput: searchInput,
		width:       80,
		height:      24,
	}
	m.updateColumnWidths()
	return m
}

// SetData replaces the listed transactions and the categories used to name
// them. The cursor stays in range.
func (m *TransactionListModel) SetData(transactions []model.Transaction, categories []model.Category) {
	m.transactions = transactions
	m.categories = categories
	m.applyFilters()
}

// SetTitle sets the header, typically the filtered period.
func (m *TransactionListModel) SetTitle(title string) {
	m.title = title
}

// Selected returns the transaction under the cursor.
func (m TransactionListModel) Selected() (model.Transaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return model.Transaction{}, false
	}
	return m.filtered[i], true
}

// Searching reports whether the search box has focus.
func (m TransactionListModel) Searching() bool { return m.mode == ModeSearch }

// Update handles messages.
func (m TransactionListModel) Update(msg tea.Msg) (TransactionListModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode == ModeSearch {
		return m, m.handleSearchMode(keyMsg)
	}

	switch keyMsg.String() {
	case "/":
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case "enter", "e":
		if txn, ok := m.Selected(); ok {
			index := m.table.Cursor()
			return m, func() tea.Msg {
				return TransactionSelectedMsg{Transaction: txn, Index: index}
			}
		}
		return m, nil

	case "n":
		return m, func() tea.Msg { return NewTransactionMsg{} }

	case "d":
		if txn, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteTransactionMsg{Transaction: txn} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

// handleSearchMode handles key presses in search mode.
func (m *TransactionListModel) handleSearchMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.search = m.searchInput.Value()
		m.applyFilters()
		m.mode = ModeNormal
		m.searchInput.Blur()

	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.search = ""
		m.applyFilters()

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return cmd
	}

	return nil
}

// View renders the transaction list.
func (m TransactionListModel) View() string {
	parts := []string{m.renderHeader()}
	if m.mode == ModeSearch {
		parts = append(parts, m.theme.BorderedBox.Padding(0, 1).Render(m.searchInput.View()))
	}
	if len(m.filtered) == 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No transactions for this period."))
	} else {
		parts = append(parts, m.table.View())
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m TransactionListModel) renderHeader() string {
	income, expense := decimal.Zero, decimal.Zero
	for _, txn := range m.filtered {
		if txn.Status == model.StatusCancelled {
			continue
		}
		amount := decimal.NewFromFloat(txn.Amount)
		if txn.Type == model.TypeIncome {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}
	}

	status := fmt.Sprintf("%d transactions", len(m.filtered))
	if m.search != "" {
		status += fmt.Sprintf(" | Search: %q", m.search)
	}
	totals := m.theme.Income.Render("+"+m.format(income)) + "  " + m.theme.Expense.Render("-"+m.format(expense))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(m.title),
		m.theme.Subtitle.Render(status)+"  "+totals,
	)
}

func (m TransactionListModel) renderFooter() string {
	if m.mode == ModeSearch {
		return hints(m.theme, "[Enter] Search", "[Esc] Clear")
	}
	return hints(m.theme, "[↑↓] Navigate", "[n] New", "[Enter] Edit", "[d] Delete", "[/] Search", "[[/]] Month")
}

func (m TransactionListModel) buildTableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.filtered))
	for _, txn := range m.filtered {
		amount := m.format(decimal.NewFromFloat(txn.SignedAmount()))
		rows = append(rows, table.Row{
			money.FormatDate(txn.DateOnly()),
			truncate(txn.Description, 40),
			m.categoryName(txn),
			amount,
			txn.Status.Label(),
		})
	}
	return rows
}

func (m TransactionListModel) categoryName(txn model.Transaction) string {
	if txn.Category != nil && txn.Category.Name != "" {
		return txn.Category.Name
	}
	if c, ok := model.FindCategory(m.categories, txn.CategoryID); ok {
		return c.Name
	}
	return "Uncategorized"
}

func (m *TransactionListModel) applyFilters() {
	m.filtered = m.transactions

	if m.search != "" {
		searchLower := strings.ToLower(m.search)
		var filtered []model.Transaction
		for _, txn := range m.transactions {
			if strings.Contains(strings.ToLower(txn.Description), searchLower) ||
				strings.Contains(strings.ToLower(m.categoryName(txn)), searchLower) ||
				strings.Contains(strings.ToLower(txn.ResponsiblePerson), searchLower) {
				filtered = append(filtered, txn)
			}
		}
		m.filtered = filtered
	}

	m.table.SetRows(m.buildTableRows())
	if m.table.Cursor() >= len(m.filtered) {
		m.table.SetCursor(max(0, len(m.filtered)-1))
	}
}

// Resize updates the component size.
func (m *TransactionListModel) Resize(width, height int) {
	m.width = width
	m.height = height

	// Title, subtitle, column header and footer.
	m.table.SetHeight(max(1, height-5))
	m.updateColumnWidths()
}

// updateColumnWidths adjusts column widths to the available space.
func (m *TransactionListModel) updateColumnWidths() {
	availableWidth := max(60, m.width-4)

	m.table.SetColumns([]table.Column{
		{Title: "Date", Width: max(10, int(float64(availableWidth)*0.13))},
		{Title: "Description", Width: max(15, int(float64(availableWidth)*0.35))},
		{Title: "Category", Width: max(12, int(float64(availableWidth)*0.2))},
		{Title: "Amount", Width: max(12, int(float64(availableWidth)*0.17))},
		{Title: "Status", Width: max(9, int(float64(availableWidth)*0.12))},
	})
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
