package components

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literalFormat(d decimal.Decimal) string {
	return "R$ " + d.String()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// collect runs cmd and flattens batches into their messages. Spinner ticks
// are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func TestMenuIgnoresOpeningEvent(t *testing.T) {
	menu := NewMenu("acc", accountMenuItems, themes.Default)
	menu.Place(Rect{X: 10, Y: 0, Width: 3, Height: 1}, Rect{X: 0, Y: 1, Width: 20, Height: 5})

	menu.Open(7)
	require.True(t, menu.IsOpen())

	tests := []struct {
		name       string
		ev         PointerEvent
		wantClosed bool
	}{
		{name: "opening event replayed", ev: PointerEvent{Seq: 7, X: 50, Y: 50}},
		{name: "older event", ev: PointerEvent{Seq: 3, X: 50, Y: 50}},
		{name: "inside dropdown", ev: PointerEvent{Seq: 8, X: 5, Y: 3}},
		{name: "on trigger", ev: PointerEvent{Seq: 9, X: 11, Y: 0}},
		{name: "outside", ev: PointerEvent{Seq: 10, X: 50, Y: 50}, wantClosed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantClosed, menu.HandlePointer(tt.ev))
			assert.Equal(t, !tt.wantClosed, menu.IsOpen())
		})
	}
}

func TestMenuKeyboardSelection(t *testing.T) {
	menu := NewMenu("acc-1", accountMenuItems, themes.Default)
	menu.Open(0)

	menu, _ = menu.Update(keyType(tea.KeyDown))
	menu, cmd := menu.Update(keyType(tea.KeyEnter))

	assert.False(t, menu.IsOpen())
	require.NotNil(t, cmd)
	assert.Equal(t, MenuSelectedMsg{Owner: "acc-1", Key: ActionToggle}, cmd())
}

func testAccounts() []model.Account {
	return []model.Account{
		{ID: "a1", Name: "Checking", Type: model.AccountChecking, Icon: "bank", CurrentBalance: 1500, IsActive: true},
		{ID: "a2", Name: "Visa", Type: model.AccountCreditCard, Icon: "credit-card", CurrentBalance: -300, IsActive: true},
	}
}

func TestAccountListPointerFlow(t *testing.T) {
	list := NewAccountList(literalFormat, themes.Default)
	list.Resize(40)
	list.SetAccounts(testAccounts())

	// First card spans rows 2-5; its trigger sits on row 3 at the right edge.
	cmd := list.HandlePointer(PointerEvent{Seq: 1, X: 37, Y: 3})
	assert.Nil(t, cmd)
	menu, open := list.OpenMenu()
	require.True(t, open)
	assert.Equal(t, "a1", menu.Owner())

	// Clicking an entry selects it.
	list.place()
	item, hit := menu.ItemAt(menu.bounds.X+2, menu.bounds.Y+2)
	require.True(t, hit)
	assert.Equal(t, ActionToggle, item.Key)

	cmd = list.HandlePointer(PointerEvent{Seq: 2, X: menu.bounds.X + 2, Y: menu.bounds.Y + 2})
	require.NotNil(t, cmd)
	list, cmd = list.Update(cmd())
	require.NotNil(t, cmd)
	action, ok := cmd().(AccountActionMsg)
	require.True(t, ok)
	assert.Equal(t, ActionToggle, action.Action)
	assert.Equal(t, model.ID("a1"), action.Account.ID)

	_, open = list.OpenMenu()
	assert.False(t, open)
}

func TestAccountListOutsideClickCloses(t *testing.T) {
	list := NewAccountList(literalFormat, themes.Default)
	list.Resize(40)
	list.SetAccounts(testAccounts())

	list.HandlePointer(PointerEvent{Seq: 4, X: 37, Y: 3})
	_, open := list.OpenMenu()
	require.True(t, open)

	list.HandlePointer(PointerEvent{Seq: 5, X: 1, Y: 0})
	_, open = list.OpenMenu()
	assert.False(t, open)
}

func TestAccountListTeardownClosesMenu(t *testing.T) {
	list := NewAccountList(literalFormat, themes.Default)
	list.SetAccounts(testAccounts())

	list, _ = list.Update(keyType(tea.KeyDown))
	list, _ = list.Update(keyRunes("m"))
	menu, open := list.OpenMenu()
	require.True(t, open)
	assert.Equal(t, "a2", menu.Owner())

	list.SetAccounts(testAccounts()[:1])
	assert.False(t, menu.IsOpen())
	_, open = list.OpenMenu()
	assert.False(t, open)
}

func TestAccountListTotals(t *testing.T) {
	list := NewAccountList(literalFormat, themes.Default)
	list.Resize(60)
	list.SetAccounts(testAccounts())

	out := ansi.Strip(list.View())
	assert.Contains(t, out, "Current R$ 1500")
	assert.Contains(t, out, "Checking")
	assert.Contains(t, out, "R$ -300")
}

type rejection struct{}

func (rejection) Error() string      { return "request failed with status 400" }
func (rejection) APIMessage() string { return "Categoria inválida" }

func newTestTransactionForm(submit form.SubmitTransactionFunc) TransactionFormModel {
	categories := []model.Category{
		{ID: "food", Name: "Food", Type: model.TypeExpense},
		{ID: "salary", Name: "Salary", Type: model.TypeIncome},
	}
	f := form.NewTransactionForm(nil, categories, form.WithClock(func() time.Time {
		return time.Date(2024, 5, 20, 9, 0, 0, 0, time.Local)
	}))
	return NewTransactionForm(context.Background(), f, submit, themes.Default)
}

func fillTransactionForm(t *testing.T, m TransactionFormModel) TransactionFormModel {
	t.Helper()
	m, _ = m.Update(keyRunes("Lunch"))
	m, _ = m.Update(keyType(tea.KeyTab))
	m, _ = m.Update(keyRunes("32,50"))
	m, _ = m.Update(keyType(tea.KeyTab))
	m, _ = m.Update(keyType(tea.KeyRight))
	return m
}

func TestTransactionFormSubmitFailureKeepsFields(t *testing.T) {
	m := fillTransactionForm(t, newTestTransactionForm(func(context.Context, model.TransactionPayload) error {
		return rejection{}
	}))

	m, cmd := m.Update(keyType(tea.KeyEnter))
	require.True(t, m.Form().Submitting())

	msgs := collect(cmd)
	require.Len(t, msgs, 1)

	// Keys are ignored while the request is in flight.
	m, _ = m.Update(keyRunes("x"))

	m, cmd = m.Update(msgs[0])
	assert.Nil(t, cmd)
	assert.False(t, m.Closed())
	assert.Equal(t, form.StateError, m.Form().State())

	v := m.Form().Values()
	assert.Equal(t, "Lunch", v.Description)
	assert.Equal(t, "32,50", v.Amount)
	assert.Equal(t, model.ID("food"), v.CategoryID)
	assert.Contains(t, ansi.Strip(m.View()), "Categoria inválida")
}

func TestTransactionFormSubmitSuccessCloses(t *testing.T) {
	var got model.TransactionPayload
	m := fillTransactionForm(t, newTestTransactionForm(func(_ context.Context, p model.TransactionPayload) error {
		got = p
		return nil
	}))

	m, cmd := m.Update(keyType(tea.KeyEnter))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)

	m, cmd = m.Update(msgs[0])
	assert.True(t, m.Closed())
	require.NotNil(t, cmd)
	assert.Equal(t, FormClosedMsg{Saved: true}, cmd())

	assert.Equal(t, "Lunch", got.Description)
	assert.InDelta(t, 32.5, got.Amount, 0.0001)
	assert.Equal(t, "2024-05-20", got.Date)
	assert.Equal(t, model.TypeExpense, got.Type)
}

func TestTransactionFormValidationBlocksSubmit(t *testing.T) {
	called := false
	m := newTestTransactionForm(func(context.Context, model.TransactionPayload) error {
		called = true
		return nil
	})

	m, _ = m.Update(keyRunes("Rent"))
	m, cmd := m.Update(keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Equal(t, form.StateError, m.Form().State())
	assert.Equal(t, "Rent", m.Form().Values().Description)
}

func TestTransactionFormTypeSwitchFiltersCategories(t *testing.T) {
	m := fillTransactionForm(t, newTestTransactionForm(nil))

	// Back to the type selector.
	for range 3 {
		m, _ = m.Update(keyType(tea.KeyShiftTab))
	}
	m, _ = m.Update(keyType(tea.KeySpace))

	assert.Equal(t, model.TypeIncome, m.Form().Values().Type)
	require.Len(t, m.Form().VisibleCategories(), 1)
	assert.Equal(t, model.ID("salary"), m.Form().VisibleCategories()[0].ID)
	assert.True(t, m.Form().HasHiddenCategory())
}

func TestTransactionFormEscCancels(t *testing.T) {
	m := newTestTransactionForm(nil)
	m, cmd := m.Update(keyType(tea.KeyEsc))
	assert.True(t, m.Closed())
	assert.Equal(t, FormClosedMsg{Saved: false}, cmd())
}

func TestAccountFormIconLastWriteWins(t *testing.T) {
	m := NewAccountForm(context.Background(), form.NewAccountForm(nil), nil, themes.Default)

	m, _ = m.Update(keyType(tea.KeyTab)) // type
	m, _ = m.Update(keyType(tea.KeyRight))
	assert.Equal(t, model.AccountChecking, m.Form().Values().Type)
	assert.Equal(t, "bank", m.Form().Values().Icon)
	assert.False(t, m.Form().IconOverridden())

	for range 4 {
		m, _ = m.Update(keyType(tea.KeyTab))
	}
	m, _ = m.Update(keyType(tea.KeyRight))
	assert.True(t, m.Form().IconOverridden())
	assert.Equal(t, "piggy-bank", m.Form().Values().Icon)
}

func TestAccountFormSubmit(t *testing.T) {
	var got model.AccountPayload
	m := NewAccountForm(context.Background(), form.NewAccountForm(nil), func(_ context.Context, p model.AccountPayload) error {
		got = p
		return nil
	}, themes.Default)

	m, _ = m.Update(keyRunes("Nubank"))
	m, cmd := m.Update(keyType(tea.KeyEnter))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)

	m, _ = m.Update(msgs[0])
	assert.True(t, m.Closed())
	assert.Equal(t, "Nubank", got.Name)
	assert.True(t, got.IsActive)
}

func TestAccountFormRejectsEmptyName(t *testing.T) {
	m := NewAccountForm(context.Background(), form.NewAccountForm(nil), nil, themes.Default)
	m, cmd := m.Update(keyType(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.True(t, errors.Is(mustValidate(m.Form()), form.ErrNameRequired))
}

func mustValidate(f *form.AccountForm) error {
	_, err := f.Validate()
	return err
}

func TestTransactionList(t *testing.T) {
	list := NewTransactionList(literalFormat, themes.Default)
	list.Resize(100, 20)
	list.SetData([]model.Transaction{
		{ID: "1", Description: "Salary", Amount: 5000, Type: model.TypeIncome, Date: "2024-05-05", CategoryID: "salary", Status: model.StatusPaid},
		{ID: "2", Description: "Groceries", Amount: 320.4, Type: model.TypeExpense, Date: "2024-05-07", CategoryID: "food"},
	}, []model.Category{{ID: "food", Name: "Food", Type: model.TypeExpense}})

	out := ansi.Strip(list.View())
	assert.Contains(t, out, "2 transactions")
	assert.Contains(t, out, "05/05/2024")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Uncategorized")

	list, cmd := list.Update(keyType(tea.KeyDown))
	_ = cmd
	list, cmd = list.Update(keyType(tea.KeyEnter))
	require.NotNil(t, cmd)
	selected, ok := cmd().(TransactionSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, model.ID("2"), selected.Transaction.ID)

	list, _ = list.Update(keyRunes("/"))
	require.True(t, list.Searching())
	list, _ = list.Update(keyRunes("sal"))
	list, _ = list.Update(keyType(tea.KeyEnter))
	assert.False(t, list.Searching())
	assert.Contains(t, ansi.Strip(list.View()), "1 transactions")

	_, cmd = list.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	del, ok := cmd().(DeleteTransactionMsg)
	require.True(t, ok)
	assert.Equal(t, model.ID("1"), del.Transaction.ID)
}

func TestDashboardPanel(t *testing.T) {
	panel := NewDashboardPanel(literalFormat, themes.Default)
	panel.Resize(120)
	assert.Contains(t, ansi.Strip(panel.View()), "Loading")

	panel.SetView(pages.DashboardView{
		Summary: model.DashboardData{
			TotalIncome:         3000,
			TotalExpense:        2000,
			PendingTransactions: 2,
			RecentTransactions: []model.Transaction{
				{ID: "t1", Description: "Padaria", Amount: 12, Type: model.TypeExpense, Date: "2024-06-02"},
			},
			ExpenseByCategory: []model.CategoryTotal{{Name: "Food", Value: 800}},
		},
		TotalBalance: decimal.NewFromInt(5000),
		Month:        6,
		Year:         2024,
	})

	out := ansi.Strip(panel.View())
	for _, want := range []string{"R$ 5000", "R$ 3000", "R$ 2000", "R$ 1000", "2 pending", "Padaria", "Food"} {
		assert.Contains(t, out, want)
	}
}
