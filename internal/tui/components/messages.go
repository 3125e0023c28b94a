package components

import "github.com/Veraticus/finflow/internal/model"

// TransactionSelectedMsg requests the edit form for a transaction.
type TransactionSelectedMsg struct {
	Transaction model.Transaction
	Index       int
}

// NewTransactionMsg requests an empty transaction form.
type NewTransactionMsg struct{}

// DeleteTransactionMsg requests deletion of a transaction.
type DeleteTransactionMsg struct {
	Transaction model.Transaction
}

// AccountActionMsg is a menu action on an account card.
type AccountActionMsg struct {
	Action  string
	Account model.Account
}

// Account card menu actions.
const (
	ActionEdit   = "edit"
	ActionToggle = "toggle"
	ActionDelete = "delete"
)

// NewAccountMsg requests an empty account form.
type NewAccountMsg struct{}

// FormSubmitMsg carries the outcome of an asynchronous form submission.
type FormSubmitMsg struct {
	Err error
}

// FormClosedMsg is sent when a form closes, after a successful submit or a
// cancel.
type FormClosedMsg struct {
	Saved bool
}
