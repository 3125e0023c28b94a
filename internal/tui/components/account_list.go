package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	// Border plus two content lines.
	cardHeight   = 4
	headerHeight = 2
	triggerGlyph = "⋮"
)

var accountMenuItems = []MenuItem{
	{Key: ActionEdit, Label: "Edit"},
	{Key: ActionToggle, Label: "Activate/Deactivate"},
	{Key: ActionDelete, Label: "Delete"},
}

// AccountListModel shows accounts as cards, each with an action menu.
type AccountListModel struct {
	format   money.Formatter
	theme    themes.Theme
	menus    map[model.ID]*Menu
	accounts []model.Account
	totals   pages.AccountTotals
	originX  int
	originY  int
	width    int
	cursor   int
	lastSeq  uint64
}

// NewAccountList creates an empty account list.
func NewAccountList(format money.Formatter, theme themes.Theme) AccountListModel {
	return AccountListModel{
		format: format,
		theme:  theme,
		menus:  make(map[model.ID]*Menu),
		width:  60,
	}
}

// SetAccounts replaces the cards. Menus of cards that disappear are torn
// down with them.
func (m *AccountListModel) SetAccounts(accounts []model.Account) {
	m.accounts = accounts
	m.totals = pages.AccountTotalsOf(accounts)

	menus := make(map[model.ID]*Menu, len(accounts))
	for _, acc := range accounts {
		if existing, ok := m.menus[acc.ID]; ok {
			menus[acc.ID] = existing
			continue
		}
		menu := NewMenu(string(acc.ID), accountMenuItems, m.theme)
		menus[acc.ID] = &menu
	}
	for id, menu := range m.menus {
		if _, kept := menus[id]; !kept {
			menu.Close()
		}
	}
	m.menus = menus
	m.cursor = min(m.cursor, max(0, len(accounts)-1))
}

// Accounts returns the listed accounts.
func (m AccountListModel) Accounts() []model.Account { return m.accounts }

// SetOrigin records the screen cell where the list is drawn so pointer
// events can be mapped onto cards.
func (m *AccountListModel) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Resize sets the card width.
func (m *AccountListModel) Resize(width int) {
	m.width = max(30, width)
}

// OpenMenu returns the open menu, if any.
func (m AccountListModel) OpenMenu() (*Menu, bool) {
	for _, menu := range m.menus {
		if menu.IsOpen() {
			return menu, true
		}
	}
	return nil, false
}

// CloseMenus closes every card menu.
func (m *AccountListModel) CloseMenus() {
	for _, menu := range m.menus {
		menu.Close()
	}
}

// Selected returns the account under the cursor.
func (m AccountListModel) Selected() (model.Account, bool) {
	if m.cursor < 0 || m.cursor >= len(m.accounts) {
		return model.Account{}, false
	}
	return m.accounts[m.cursor], true
}

// Update handles keys and menu selections.
func (m AccountListModel) Update(msg tea.Msg) (AccountListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case MenuSelectedMsg:
		for _, acc := range m.accounts {
			if string(acc.ID) == msg.Owner {
				acc, action := acc, msg.Key
				return m, func() tea.Msg { return AccountActionMsg{Action: action, Account: acc} }
			}
		}
		return m, nil

	case tea.KeyMsg:
		if menu, ok := m.OpenMenu(); ok {
			updated, cmd := menu.Update(msg)
			*menu = updated
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AccountListModel) handleKey(msg tea.KeyMsg) (AccountListModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, max(0, len(m.accounts)-1))
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "n":
		return m, func() tea.Msg { return NewAccountMsg{} }
	case "enter", "e":
		if acc, ok := m.Selected(); ok {
			return m, func() tea.Msg { return AccountActionMsg{Action: ActionEdit, Account: acc} }
		}
	case "m", ".":
		if acc, ok := m.Selected(); ok {
			m.menus[acc.ID].Open(m.lastSeq)
		}
	}
	return m, nil
}

// HandlePointer routes a mouse press: menu entries, outside-click dismissal,
// trigger activation and card selection, in that order.
func (m *AccountListModel) HandlePointer(ev PointerEvent) tea.Cmd {
	m.lastSeq = max(m.lastSeq, ev.Seq)
	m.place()

	if menu, ok := m.OpenMenu(); ok {
		if item, hit := menu.ItemAt(ev.X, ev.Y); hit {
			return menu.Select(item)
		}
		if menu.HandlePointer(ev) {
			return nil
		}
	}

	for i, acc := range m.accounts {
		menu := m.menus[acc.ID]
		if menu.trigger.Contains(ev.X, ev.Y) {
			m.cursor = i
			if !menu.IsOpen() {
				m.CloseMenus()
			}
			menu.Toggle(ev.Seq)
			return nil
		}
	}

	for i, acc := range m.accounts {
		if m.cardRect(acc.ID).Contains(ev.X, ev.Y) {
			m.cursor = i
			return nil
		}
	}
	return nil
}

// place computes where every card, trigger and open dropdown is drawn. It
// must mirror View.
func (m *AccountListModel) place() {
	y := m.originY + headerHeight
	for _, acc := range m.accounts {
		menu := m.menus[acc.ID]
		trigger := Rect{X: m.originX + m.width - 4, Y: y + 1, Width: 3, Height: 1}
		var bounds Rect
		if menu.IsOpen() {
			bounds = Rect{X: m.originX + m.width - menuWidth(), Y: y + cardHeight, Width: menuWidth(), Height: len(accountMenuItems) + 2}
		}
		menu.Place(trigger, bounds)
		y += cardHeight + bounds.Height
	}
}

func (m AccountListModel) cardRect(id model.ID) Rect {
	y := m.originY + headerHeight
	for _, acc := range m.accounts {
		if acc.ID == id {
			return Rect{X: m.originX, Y: y, Width: m.width, Height: cardHeight}
		}
		y += cardHeight
		if m.menus[acc.ID].IsOpen() {
			y += len(accountMenuItems) + 2
		}
	}
	return Rect{}
}

func menuWidth() int {
	w := 0
	for _, item := range accountMenuItems {
		w = max(w, lipgloss.Width(item.Label)+2)
	}
	// Rounded border on both sides.
	return w + 2
}

// View renders the totals header and the cards.
func (m AccountListModel) View() string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(m.theme.Foreground).Render("Accounts"),
		fmt.Sprintf("Current %s   Projected %s",
			m.money(m.totals.Current),
			m.money(m.totals.Projected)),
	}

	if len(m.accounts) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No accounts yet. Press n to add one."))
	}

	for i, acc := range m.accounts {
		lines = append(lines, m.renderCard(acc, i == m.cursor))
		if menu := m.menus[acc.ID]; menu.IsOpen() {
			lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, menu.View()))
		}
	}

	lines = append(lines, hints(m.theme, "[↑↓] Navigate", "[n] New", "[Enter] Edit", "[m] Menu"))
	return strings.Join(lines, "\n")
}

func (m AccountListModel) renderCard(acc model.Account, selected bool) string {
	inner := m.width - 2

	name := themes.AccountIcon(acc.Icon) + " " + truncate(acc.Name, max(8, inner-24))
	if !acc.IsActive {
		name = m.theme.Inactive.Render(name)
	}
	typeLabel := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(" · " + acc.Type.Label())
	head := name + typeLabel
	gap := max(1, inner-lipgloss.Width(head)-lipgloss.Width(triggerGlyph)-1)
	head += strings.Repeat(" ", gap) + triggerGlyph + " "

	detail := m.money(decimal.NewFromFloat(acc.CurrentBalance))
	if acc.ProjectedBalance != nil {
		detail += lipgloss.NewStyle().Foreground(m.theme.Muted).Render("  projected ") +
			m.money(decimal.NewFromFloat(*acc.ProjectedBalance))
	}
	if acc.Institution != "" {
		detail = truncate(acc.Institution, 24) + "  " + detail
	}

	border := m.theme.Border
	if selected {
		border = m.theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(inner).
		MaxHeight(cardHeight).
		Render(head + "\n" + detail)
}

func (m AccountListModel) money(d decimal.Decimal) string {
	return m.theme.Money(m.format(d), d.IsNegative())
}
