package components

import (
	"context"
	"strings"

	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type accountField int

const (
	accountFieldName accountField = iota
	accountFieldType
	accountFieldInstitution
	accountFieldBalance
	accountFieldColor
	accountFieldIcon
	accountFieldActive
	accountFieldCount
)

// AccountIcons are the icon names offered by the icon picker.
var AccountIcons = []string{"wallet2", "bank", "piggy-bank", "credit-card", "graph-up-arrow", "cash"}

// AccountFormModel is the create/edit account dialog.
type AccountFormModel struct {
	ctx         context.Context
	form        *form.AccountForm
	submit      form.SubmitAccountFunc
	theme       themes.Theme
	name        textinput.Model
	institution textinput.Model
	balance     textinput.Model
	color       textinput.Model
	spinner     spinner.Model
	focus       accountField
	width       int
	closed      bool
}

// NewAccountForm creates the dialog for f.
func NewAccountForm(ctx context.Context, f *form.AccountForm, submit form.SubmitAccountFunc, theme themes.Theme) AccountFormModel {
	v := f.Values()
	m := AccountFormModel{
		ctx:         ctx,
		form:        f,
		submit:      submit,
		theme:       theme,
		name:        newInput("Account name", 80),
		institution: newInput("Bank or institution", 80),
		balance:     newInput("0,00", 20),
		color:       newInput(form.DefaultAccountColor, 7),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:       60,
	}
	m.name.SetValue(v.Name)
	m.institution.SetValue(v.Institution)
	m.balance.SetValue(v.InitialBalance)
	m.color.SetValue(v.Color)
	m.focusInput()
	return m
}

// Form returns the underlying form state.
func (m AccountFormModel) Form() *form.AccountForm { return m.form }

// Closed reports whether the dialog finished.
func (m AccountFormModel) Closed() bool { return m.closed }

// Resize sets the dialog width.
func (m *AccountFormModel) Resize(width int) {
	m.width = width
}

// Update handles keys and submission results.
func (m AccountFormModel) Update(msg tea.Msg) (AccountFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case FormSubmitMsg:
		m.form.Finish(msg.Err)
		if msg.Err != nil {
			return m, nil
		}
		m.closed = true
		return m, closeForm(true)

	case spinner.TickMsg:
		if !m.form.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.form.Submitting() {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AccountFormModel) handleKey(msg tea.KeyMsg) (AccountFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closed = true
		return m, closeForm(false)
	case "ctrl+s", "enter":
		payload, err := m.form.Begin()
		if err != nil {
			return m, nil
		}
		ctx, submit := m.ctx, m.submit
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			return FormSubmitMsg{Err: submit(ctx, payload)}
		})
	case "tab", "down":
		m.focus = accountField(cycle(int(m.focus), 1, int(accountFieldCount)))
		m.focusInput()
		return m, nil
	case "shift+tab", "up":
		m.focus = accountField(cycle(int(m.focus), -1, int(accountFieldCount)))
		m.focusInput()
		return m, nil
	case "left", "right", " ":
		if m.handleChoice(msg.String()) {
			return m, nil
		}
	}

	input := m.input()
	if input == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	m.syncInput()
	return m, cmd
}

func (m *AccountFormModel) handleChoice(k string) bool {
	delta := 1
	if k == "left" {
		delta = -1
	}
	v := m.form.Values()

	switch m.focus {
	case accountFieldType:
		i := 0
		for j, t := range model.AccountTypes {
			if t == v.Type {
				i = j
			}
		}
		_ = m.form.SetType(model.AccountTypes[cycle(i, delta, len(model.AccountTypes))])
	case accountFieldIcon:
		i := -1
		for j, icon := range AccountIcons {
			if icon == v.Icon {
				i = j
			}
		}
		_ = m.form.SetIcon(AccountIcons[cycle(i+delta, 0, len(AccountIcons))])
	case accountFieldActive:
		_ = m.form.SetActive(!v.IsActive)
	default:
		return false
	}
	return true
}

func (m *AccountFormModel) input() *textinput.Model {
	switch m.focus {
	case accountFieldName:
		return &m.name
	case accountFieldInstitution:
		return &m.institution
	case accountFieldBalance:
		return &m.balance
	case accountFieldColor:
		return &m.color
	}
	return nil
}

func (m *AccountFormModel) syncInput() {
	switch m.focus {
	case accountFieldName:
		_ = m.form.SetName(m.name.Value())
	case accountFieldInstitution:
		_ = m.form.SetInstitution(m.institution.Value())
	case accountFieldBalance:
		_ = m.form.SetInitialBalance(m.balance.Value())
	case accountFieldColor:
		_ = m.form.SetColor(m.color.Value())
	}
}

func (m *AccountFormModel) focusInput() {
	for _, in := range []*textinput.Model{&m.name, &m.institution, &m.balance, &m.color} {
		in.Blur()
	}
	if in := m.input(); in != nil {
		in.Focus()
	}
}

// View renders the dialog.
func (m AccountFormModel) View() string {
	v := m.form.Values()

	title := "New account"
	if m.form.Editing() {
		title = "Edit account"
	}

	icon := themes.AccountIcon(v.Icon) + " " + v.Icon
	if !m.form.IconOverridden() {
		icon += " (suggested)"
	}

	rows := []string{
		renderRow(m.theme, "Name", m.name.View(), m.focus == accountFieldName),
		renderRow(m.theme, "Type", renderChoice(v.Type.Label(), m.focus == accountFieldType), m.focus == accountFieldType),
		renderRow(m.theme, "Institution", m.institution.View(), m.focus == accountFieldInstitution),
		renderRow(m.theme, "Balance (R$)", m.balance.View(), m.focus == accountFieldBalance),
		renderRow(m.theme, "Color", m.color.View(), m.focus == accountFieldColor),
		renderRow(m.theme, "Icon", renderChoice(icon, m.focus == accountFieldIcon), m.focus == accountFieldIcon),
		renderRow(m.theme, "Active", renderToggle(v.IsActive), m.focus == accountFieldActive),
	}

	var footer string
	switch m.form.State() {
	case form.StateSubmitting:
		footer = m.spinner.View() + " Saving..."
	case form.StateError:
		footer = m.theme.StatusError.Render(m.form.Message())
	default:
		footer = hints(m.theme, "[Tab] Next", "[←→] Change", "[Enter] Save", "[Esc] Cancel")
	}

	return m.theme.RoundedBox.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(title),
		strings.Join(rows, "\n"),
		"",
		footer,
	))
}
