package components

import (
	"strings"

	"github.com/Veraticus/finflow/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rect is a screen region in cells.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// PointerEvent is a mouse press numbered by the shell. Seq increases by one
// for every pointer event the program receives.
type PointerEvent struct {
	Seq uint64
	X   int
	Y   int
}

// MenuItem is one dropdown entry.
type MenuItem struct {
	Key   string
	Label string
}

// MenuSelectedMsg reports a chosen menu entry.
type MenuSelectedMsg struct {
	Owner string
	Key   string
}

// Menu is a dropdown attached to a trigger. It closes on a pointer event
// outside its trigger and items. The event that opened it is never treated
// as an outside event: Open records the sequence number of the opening event
// and HandlePointer ignores anything at or below it.
type Menu struct {
	theme   themes.Theme
	owner   string
	items   []MenuItem
	trigger Rect
	bounds  Rect
	marker  uint64
	cursor  int
	open    bool
}

// NewMenu creates a closed menu for owner.
func NewMenu(owner string, items []MenuItem, theme themes.Theme) Menu {
	return Menu{owner: owner, items: items, theme: theme}
}

// Open shows the menu. seq is the sequence number of the pointer event that
// activated the trigger, or the latest seen sequence for keyboard opens.
func (m *Menu) Open(seq uint64) {
	m.open = true
	m.marker = seq
	m.cursor = 0
}

// Close hides the menu.
func (m *Menu) Close() {
	m.open = false
}

// Toggle opens a closed menu and closes an open one.
func (m *Menu) Toggle(seq uint64) {
	if m.open {
		m.Close()
		return
	}
	m.Open(seq)
}

// IsOpen reports whether the dropdown is showing.
func (m Menu) IsOpen() bool { return m.open }

// Owner returns the id of the card that owns the menu.
func (m Menu) Owner() string { return m.owner }

// Place records where the trigger and the dropdown were drawn.
func (m *Menu) Place(trigger, bounds Rect) {
	m.trigger = trigger
	m.bounds = bounds
}

// HandlePointer closes the menu when ev lands outside the trigger and the
// dropdown. It reports whether the menu was closed.
func (m *Menu) HandlePointer(ev PointerEvent) bool {
	if !m.open || ev.Seq <= m.marker {
		return false
	}
	if m.trigger.Contains(ev.X, ev.Y) || m.bounds.Contains(ev.X, ev.Y) {
		return false
	}
	m.Close()
	return true
}

// ItemAt returns the entry drawn at (x, y), if any.
func (m Menu) ItemAt(x, y int) (MenuItem, bool) {
	if !m.open || !m.bounds.Contains(x, y) {
		return MenuItem{}, false
	}
	// One row of border above the first entry.
	row := y - m.bounds.Y - 1
	if row < 0 || row >= len(m.items) {
		return MenuItem{}, false
	}
	return m.items[row], true
}

// Update handles keyboard navigation while open.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.items)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "esc":
		m.Close()
	case "enter":
		if m.cursor < len(m.items) {
			item := m.items[m.cursor]
			m.Close()
			return m, m.selected(item)
		}
	}
	return m, nil
}

// Select closes the menu and emits the selection for item.
func (m *Menu) Select(item MenuItem) tea.Cmd {
	m.Close()
	return m.selected(item)
}

func (m Menu) selected(item MenuItem) tea.Cmd {
	owner := m.owner
	return func() tea.Msg {
		return MenuSelectedMsg{Owner: owner, Key: item.Key}
	}
}

// View renders the dropdown, or nothing when closed.
func (m Menu) View() string {
	if !m.open {
		return ""
	}
	lines := make([]string, len(m.items))
	for i, item := range m.items {
		label := " " + item.Label + " "
		if i == m.cursor {
			label = m.theme.Selected.Render(label)
		}
		lines[i] = label
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Render(strings.Join(lines, "\n"))
}
