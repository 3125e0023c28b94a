package components

import (
	"context"
	"strconv"
	"strings"

	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type txnField int

const (
	txnFieldType txnField = iota
	txnFieldDescription
	txnFieldAmount
	txnFieldCategory
	txnFieldAccount
	txnFieldDate
	txnFieldStatus
	txnFieldResponsible
	txnFieldInstallments
	txnFieldRecurring
	txnFieldCount
)

var statuses = []model.TransactionStatus{
	model.StatusPending,
	model.StatusPaid,
	model.StatusOverdue,
	model.StatusCancelled,
}

// TransactionFormModel is the create/edit transaction dialog. Field state
// and the submit lifecycle live in form.TransactionForm; this model only
// maps keys onto it.
type TransactionFormModel struct {
	ctx         context.Context
	form        *form.TransactionForm
	submit      form.SubmitTransactionFunc
	theme       themes.Theme
	accounts    []model.Account
	description textinput.Model
	amount      textinput.Model
	date        textinput.Model
	responsible textinput.Model
	spinner     spinner.Model
	focus       txnField
	width       int
	closed      bool
}

// NewTransactionForm creates the dialog for f. Submissions go through
// submit with ctx.
func NewTransactionForm(ctx context.Context, f *form.TransactionForm, submit form.SubmitTransactionFunc, theme themes.Theme) TransactionFormModel {
	v := f.Values()

	m := TransactionFormModel{
		ctx:         ctx,
		form:        f,
		submit:      submit,
		theme:       theme,
		description: newInput("Description", 120),
		amount:      newInput("0,00", 20),
		date:        newInput("DD/MM/YYYY", 20),
		responsible: newInput("Who is responsible", 60),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		focus:       txnFieldDescription,
		width:       60,
	}
	m.description.SetValue(v.Description)
	m.amount.SetValue(v.Amount)
	m.date.SetValue(v.Date)
	m.responsible.SetValue(v.ResponsiblePerson)
	m.focusInput()
	return m
}

// SetAccounts fills the account selector.
func (m *TransactionFormModel) SetAccounts(accounts []model.Account) {
	m.accounts = accounts
}

// Form returns the underlying form state.
func (m TransactionFormModel) Form() *form.TransactionForm { return m.form }

// Closed reports whether the dialog finished.
func (m TransactionFormModel) Closed() bool { return m.closed }

// Resize sets the dialog width.
func (m *TransactionFormModel) Resize(width int) {
	m.width = width
}

// Update handles keys and submission results.
func (m TransactionFormModel) Update(msg tea.Msg) (TransactionFormModel, tea.Cmd) {
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

func (m TransactionFormModel) handleKey(msg tea.KeyMsg) (TransactionFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closed = true
		return m, closeForm(false)
	case "ctrl+s", "enter":
		return m.startSubmit()
	case "tab", "down":
		m.focus = txnField(cycle(int(m.focus), 1, int(txnFieldCount)))
		m.focusInput()
		return m, nil
	case "shift+tab", "up":
		m.focus = txnField(cycle(int(m.focus), -1, int(txnFieldCount)))
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

// handleChoice steps selector and toggle fields. It reports whether the key
// was consumed.
func (m *TransactionFormModel) handleChoice(k string) bool {
	delta := 1
	if k == "left" {
		delta = -1
	}
	v := m.form.Values()

	switch m.focus {
	case txnFieldType:
		next := model.TypeIncome
		if v.Type == model.TypeIncome {
			next = model.TypeExpense
		}
		_ = m.form.SetType(next)
	case txnFieldCategory:
		options := m.form.VisibleCategories()
		if len(options) == 0 {
			return true
		}
		i := indexOfCategory(options, v.CategoryID)
		if i < 0 {
			i = 0
			if delta < 0 {
				i = len(options) - 1
			}
		} else {
			i = cycle(i, delta, len(options))
		}
		_ = m.form.SetCategory(options[i].ID)
	case txnFieldAccount:
		// Position 0 is "no account".
		i := cycle(indexOfAccount(m.accounts, v.AccountID)+1, delta, len(m.accounts)+1)
		id := model.ID("")
		if i > 0 {
			id = m.accounts[i-1].ID
		}
		_ = m.form.SetAccount(id)
	case txnFieldStatus:
		i := 0
		for j, s := range statuses {
			if s == v.Status {
				i = j
			}
		}
		_ = m.form.SetStatus(statuses[cycle(i, delta, len(statuses))])
	case txnFieldInstallments:
		if k == " " {
			return false
		}
		_ = m.form.SetInstallments(max(1, v.Installments+delta))
	case txnFieldRecurring:
		_ = m.form.SetRecurring(!v.IsRecurring)
	default:
		return false
	}
	return true
}

func (m TransactionFormModel) startSubmit() (TransactionFormModel, tea.Cmd) {
	payload, err := m.form.Begin()
	if err != nil {
		return m, nil
	}
	ctx, submit := m.ctx, m.submit
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return FormSubmitMsg{Err: submit(ctx, payload)}
	})
}

func (m *TransactionFormModel) input() *textinput.Model {
	switch m.focus {
	case txnFieldDescription:
		return &m.description
	case txnFieldAmount:
		return &m.amount
	case txnFieldDate:
		return &m.date
	case txnFieldResponsible:
		return &m.responsible
	}
	return nil
}

func (m *TransactionFormModel) syncInput() {
	switch m.focus {
	case txnFieldDescription:
		_ = m.form.SetDescription(m.description.Value())
	case txnFieldAmount:
		_ = m.form.SetAmount(m.amount.Value())
	case txnFieldDate:
		_ = m.form.SetDate(m.date.Value())
	case txnFieldResponsible:
		_ = m.form.SetResponsiblePerson(m.responsible.Value())
	}
}

func (m *TransactionFormModel) focusInput() {
	for _, in := range []*textinput.Model{&m.description, &m.amount, &m.date, &m.responsible} {
		in.Blur()
	}
	if in := m.input(); in != nil {
		in.Focus()
	}
}

// View renders the dialog.
func (m TransactionFormModel) View() string {
	v := m.form.Values()

	title := "New transaction"
	if m.form.Editing() {
		title = "Edit transaction"
	}

	typeLabel := "Expense"
	if v.Type == model.TypeIncome {
		typeLabel = "Income"
	}

	category := "Select a category"
	if c, ok := model.FindCategory(m.form.VisibleCategories(), v.CategoryID); ok {
		category = c.Name
	} else if m.form.HasHiddenCategory() {
		category = "(category of the other type)"
	}

	account := "None"
	if i := indexOfAccount(m.accounts, v.AccountID); i >= 0 {
		account = m.accounts[i].Name
	}

	rows := []string{
		renderRow(m.theme, "Type", renderChoice(typeLabel, m.focus == txnFieldType), m.focus == txnFieldType),
		renderRow(m.theme, "Description", m.description.View(), m.focus == txnFieldDescription),
		renderRow(m.theme, "Amount (R$)", m.amount.View(), m.focus == txnFieldAmount),
		renderRow(m.theme, "Category", renderChoice(category, m.focus == txnFieldCategory), m.focus == txnFieldCategory),
		renderRow(m.theme, "Account", renderChoice(account, m.focus == txnFieldAccount), m.focus == txnFieldAccount),
		renderRow(m.theme, "Date", m.date.View(), m.focus == txnFieldDate),
		renderRow(m.theme, "Status", renderChoice(v.Status.Label(), m.focus == txnFieldStatus), m.focus == txnFieldStatus),
		renderRow(m.theme, "Responsible", m.responsible.View(), m.focus == txnFieldResponsible),
		renderRow(m.theme, "Installments", renderChoice(strconv.Itoa(max(1, v.Installments)), m.focus == txnFieldInstallments), m.focus == txnFieldInstallments),
		renderRow(m.theme, "Recurring", renderToggle(v.IsRecurring), m.focus == txnFieldRecurring),
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

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(title),
		strings.Join(rows, "\n"),
		"",
		footer,
	)
	return m.theme.RoundedBox.Width(m.width).Render(body)
}

func closeForm(saved bool) tea.Cmd {
	return func() tea.Msg { return FormClosedMsg{Saved: saved} }
}

func indexOfCategory(categories []model.Category, id model.ID) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfAccount(accounts []model.Account, id model.ID) int {
	if id.IsZero() {
		return -1
	}
	for i, a := range accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
