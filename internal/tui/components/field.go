package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

const labelWidth = 14

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	return in
}

// renderRow draws "label  value" with the focused row highlighted.
func renderRow(theme themes.Theme, label, value string, focused bool) string {
	l := lipgloss.NewStyle().Width(labelWidth).Foreground(theme.Muted).Render(label)
	if focused {
		l = lipgloss.NewStyle().Width(labelWidth).Foreground(theme.Primary).Bold(true).Render("› " + label)
	}
	return l + value
}

// renderChoice draws a cycling selector value.
func renderChoice(value string, focused bool) string {
	if focused {
		return fmt.Sprintf("‹ %s ›", value)
	}
	return value
}

func renderToggle(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// cycle moves i by delta within n entries, wrapping around.
func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

func hints(theme themes.Theme, items ...string) string {
	return lipgloss.NewStyle().Foreground(theme.Muted).Render(strings.Join(items, "  "))
}
