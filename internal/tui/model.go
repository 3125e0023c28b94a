package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/finflow/internal/api"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui/components"
	"github.com/Veraticus/finflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents what has keyboard focus.
type State int

const (
	StateBrowse State = iota
	StateTransactionForm
	StateAccountForm
	StateConfirmDelete
	StateHelp
)

// Screen is one of the top-level views.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenTransactions
	ScreenAccounts
	screenCount
)

func (s Screen) String() string {
	switch s {
	case ScreenTransactions:
		return "Transactions"
	case ScreenAccounts:
		return "Accounts"
	default:
		return "Dashboard"
	}
}

// Lines above the screen body: tab bar and a blank row.
const bodyTop = 2

// Model holds the main TUI state.
type Model struct {
	ctx             context.Context
	theme           themes.Theme
	fatal           error
	lastError       error
	logger          *slog.Logger
	pendingDelete   *deleteRequest
	pages           Pages
	status          string
	config          Config
	keymap          KeyMap
	txnForm         components.TransactionFormModel
	accountForm     components.AccountFormModel
	transactionList components.TransactionListModel
	accountList     components.AccountListModel
	dashboard       components.DashboardPanel
	help            help.Model
	spinner         spinner.Model
	typeFilter      model.TransactionType
	categories      []model.Category
	pointerSeq      uint64
	month           int
	year            int
	width           int
	height          int
	state           State
	screen          Screen
	quitting        bool
	ready           bool
}

// New creates the shell model. ctx bounds every request it issues.
func New(ctx context.Context, p Pages, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	now := cfg.Now()
	m := Model{
		ctx:             ctx,
		pages:           p,
		config:          cfg,
		theme:           cfg.Theme,
		logger:          common.Component(cfg.Logger, "tui"),
		keymap:          DefaultKeyMap(),
		help:            help.New(),
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		dashboard:       components.NewDashboardPanel(cfg.Format, cfg.Theme),
		transactionList: components.NewTransactionList(cfg.Format, cfg.Theme),
		accountList:     components.NewAccountList(cfg.Format, cfg.Theme),
		month:           int(now.Month()),
		year:            now.Year(),
		width:           cfg.Width,
		height:          cfg.Height,
	}
	m.handleResize()
	return m
}

// Init starts the first loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadDashboard(),
		m.loadTransactions(),
		m.loadAccounts(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		return m.routeSpinner(msg)

	case dashboardLoadedMsg:
		if m.failed(msg.err) {
			return m, m.quitOnFatal()
		}
		m.dashboard.SetView(msg.view)
		m.ready = true
		return m, nil

	case transactionsLoadedMsg:
		if m.failed(msg.err) {
			return m, m.quitOnFatal()
		}
		m.categories = msg.view.Categories
		m.transactionList.SetData(msg.view.Transactions, msg.view.Categories)
		return m, nil

	case accountsLoadedMsg:
		if m.failed(msg.err) {
			return m, m.quitOnFatal()
		}
		m.accountList.SetAccounts(msg.accounts)
		return m, nil

	case formAccountsMsg:
		if m.state == StateTransactionForm {
			m.txnForm.SetAccounts(msg.accounts)
		}
		return m, nil

	case mutationDoneMsg:
		if m.failed(msg.err) {
			return m, m.quitOnFatal()
		}
		m.status = msg.what
		if m.failed(m.refreshFromPages(msg.screen)) && m.fatal != nil {
			return m, m.quitOnFatal()
		}
		return m, m.loadDashboard()

	case components.FormSubmitMsg:
		return m.routeForm(msg)

	case components.FormClosedMsg:
		screen := ScreenTransactions
		if m.state == StateAccountForm {
			screen = ScreenAccounts
		}
		m.state = StateBrowse
		if !msg.Saved {
			return m, nil
		}
		m.status = "Saved"
		if m.failed(m.refreshFromPages(screen)) && m.fatal != nil {
			return m, m.quitOnFatal()
		}
		return m, m.loadDashboard()

	case components.MenuSelectedMsg:
		var cmd tea.Cmd
		m.accountList, cmd = m.accountList.Update(msg)
		return m, cmd

	case components.TransactionSelectedMsg:
		txn := msg.Transaction
		return m.openTransactionForm(&txn)

	case components.NewTransactionMsg:
		return m.openTransactionForm(nil)

	case components.DeleteTransactionMsg:
		req := deleteTransaction(m, msg.Transaction)
		m.pendingDelete = &req
		m.state = StateConfirmDelete
		return m, nil

	case components.NewAccountMsg:
		return m.openAccountForm(nil)

	case components.AccountActionMsg:
		switch msg.Action {
		case components.ActionEdit:
			acc := msg.Account
			return m.openAccountForm(&acc)
		case components.ActionToggle:
			return m, m.toggleAccount(msg.Account)
		case components.ActionDelete:
			req := deleteAccount(m, msg.Account)
			m.pendingDelete = &req
			m.state = StateConfirmDelete
		}
		return m, nil
	}

	return m, nil
}

// failed reports whether a load result must be dropped: stale responses
// silently, real errors after recording them.
func (m *Model) failed(err error) bool {
	if err == nil || errors.Is(err, pages.ErrStale) {
		return err != nil
	}
	m.lastError = err
	m.status = ""
	m.logger.Warn("request failed", "error", err)
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, common.ErrNotAuthenticated) {
		m.fatal = err
	}
	return true
}

func (m *Model) quitOnFatal() tea.Cmd {
	if m.fatal == nil {
		return nil
	}
	m.quitting = true
	return tea.Quit
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.fatal }

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateTransactionForm:
		return m.routeForm(msg)
	case StateAccountForm:
		return m.routeForm(msg)
	case StateHelp:
		m.state = StateBrowse
		return m, nil
	case StateConfirmDelete:
		return m.handleConfirm(msg)
	}

	// A focused search box takes every key.
	if m.screen == ScreenTransactions && m.transactionList.Searching() {
		var cmd tea.Cmd
		m.transactionList, cmd = m.transactionList.Update(msg)
		return m, cmd
	}
	// An open card menu takes every key.
	if _, open := m.accountList.OpenMenu(); open && m.screen == ScreenAccounts {
		var cmd tea.Cmd
		m.accountList, cmd = m.accountList.Update(msg)
		return m, cmd
	}

	m.lastError = nil
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
		return m, nil
	case key.Matches(msg, m.keymap.Dashboard):
		return m.switchScreen(ScreenDashboard)
	case key.Matches(msg, m.keymap.Transactions):
		return m.switchScreen(ScreenTransactions)
	case key.Matches(msg, m.keymap.Accounts):
		return m.switchScreen(ScreenAccounts)
	case key.Matches(msg, m.keymap.NextScreen):
		return m.switchScreen((m.screen + 1) % screenCount)
	case key.Matches(msg, m.keymap.PrevMonth):
		return m.shiftMonth(-1)
	case key.Matches(msg, m.keymap.NextMonth):
		return m.shiftMonth(1)
	case key.Matches(msg, m.keymap.Refresh):
		m.status = ""
		return m, m.reloadScreen(m.screen)
	case key.Matches(msg, m.keymap.TypeFilter) && m.screen == ScreenTransactions:
		switch m.typeFilter {
		case "":
			m.typeFilter = model.TypeIncome
		case model.TypeIncome:
			m.typeFilter = model.TypeExpense
		default:
			m.typeFilter = ""
		}
		m.transactionList.SetTitle(m.transactionsTitle())
		return m, m.loadTransactions()
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenTransactions:
		m.transactionList, cmd = m.transactionList.Update(msg)
	case ScreenAccounts:
		m.accountList, cmd = m.accountList.Update(msg)
	case ScreenDashboard:
		if key.Matches(msg, m.keymap.New) {
			return m.openTransactionForm(nil)
		}
	}
	return m, cmd
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.pendingDelete
	switch {
	case key.Matches(msg, m.keymap.Confirm) && req != nil:
		m.pendingDelete = nil
		m.state = StateBrowse
		return m, m.runDelete(*req)
	case key.Matches(msg, m.keymap.Cancel):
		m.pendingDelete = nil
		m.state = StateBrowse
	}
	return m, nil
}

// handleMouse numbers each press and hands it to the account cards.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	m.pointerSeq++
	if m.state != StateBrowse || m.screen != ScreenAccounts {
		return m, nil
	}
	cmd := m.accountList.HandlePointer(components.PointerEvent{Seq: m.pointerSeq, X: msg.X, Y: msg.Y})
	return m, cmd
}

func (m Model) routeForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateTransactionForm:
		m.txnForm, cmd = m.txnForm.Update(msg)
	case StateAccountForm:
		m.accountForm, cmd = m.accountForm.Update(msg)
	}
	return m, cmd
}

func (m Model) routeSpinner(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.state == StateTransactionForm || m.state == StateAccountForm {
		return m.routeForm(msg)
	}
	if m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) switchScreen(screen Screen) (tea.Model, tea.Cmd) {
	if m.screen == ScreenAccounts && screen != ScreenAccounts {
		m.accountList.CloseMenus()
	}
	m.screen = screen
	m.status = ""
	return m, nil
}

func (m Model) shiftMonth(delta int) (tea.Model, tea.Cmd) {
	t := time.Date(m.year, time.Month(m.month)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	m.month, m.year = int(t.Month()), t.Year()
	m.transactionList.SetTitle(m.transactionsTitle())
	return m, tea.Batch(m.loadDashboard(), m.loadTransactions())
}

func (m Model) openTransactionForm(existing *model.Transaction) (tea.Model, tea.Cmd) {
	id := model.ID("")
	if existing != nil {
		id = existing.ID
	}
	f := form.NewTransactionForm(existing, m.categories, form.WithClock(m.config.Now))
	m.txnForm = components.NewTransactionForm(m.ctx, f, m.pages.Transactions.Submitter(id), m.theme)
	m.txnForm.Resize(min(72, m.width-4))
	m.state = StateTransactionForm
	m.status = ""
	return m, m.loadFormAccounts()
}

func (m Model) openAccountForm(existing *model.Account) (tea.Model, tea.Cmd) {
	id := model.ID("")
	if existing != nil {
		id = existing.ID
	}
	m.accountForm = components.NewAccountForm(m.ctx, form.NewAccountForm(existing), m.pages.Accounts.Submitter(id), m.theme)
	m.accountForm.Resize(min(72, m.width-4))
	m.accountList.CloseMenus()
	m.state = StateAccountForm
	m.status = ""
	return m, nil
}

// refreshFromPages copies the state a container published after a mutation
// into the screen components. It returns the container's reload failure, in
// which case the components keep the last published data.
func (m *Model) refreshFromPages(screen Screen) error {
	switch screen {
	case ScreenTransactions:
		view := m.pages.Transactions.View()
		m.categories = view.Categories
		m.transactionList.SetData(view.Transactions, view.Categories)
		return m.pages.Transactions.LoadErr()
	case ScreenAccounts:
		m.accountList.SetAccounts(m.pages.Accounts.Items())
		return m.pages.Accounts.LoadErr()
	}
	return nil
}

// filter is the transaction query for the current period and type.
func (m Model) filter() model.TransactionFilter {
	return model.TransactionFilter{Month: m.month, Year: m.year, Type: m.typeFilter}
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	bodyHeight := max(10, m.height-bodyTop-2)
	m.dashboard.Resize(m.width)
	m.transactionList.Resize(m.width, bodyHeight)
	m.transactionList.SetTitle(m.transactionsTitle())
	m.accountList.Resize(min(m.width, 80))
	m.accountList.SetOrigin(0, bodyTop)
	m.help.Width = m.width
}
