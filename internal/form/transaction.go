package form

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/shopspring/decimal"
)

// TransactionValues are the raw field values of a transaction form.
type TransactionValues struct {
	Description       string
	Amount            string
	Type              model.TransactionType
	CategoryID        model.ID
	AccountID         model.ID
	Date              string
	Status            model.TransactionStatus
	ResponsiblePerson string
	Installments      int
	IsRecurring       bool
}

// SubmitTransactionFunc sends a validated payload to the backend.
type SubmitTransactionFunc func(ctx context.Context, payload model.TransactionPayload) error

// TransactionForm tracks the fields and lifecycle of a create or edit
// transaction form. It is not safe for concurrent use.
type TransactionForm struct {
	id         model.ID
	values     TransactionValues
	categories []model.Category
	machine
}

// TransactionOption customizes a new TransactionForm.
type TransactionOption func(*transactionOptions)

type transactionOptions struct {
	now func() time.Time
}

// WithClock sets the clock used for the default date.
func WithClock(now func() time.Time) TransactionOption {
	return func(o *transactionOptions) { o.now = now }
}

// NewTransactionForm creates a form pre-populated from existing, or with
// defaults (today, one installment, pending expense) when existing is nil.
func NewTransactionForm(existing *model.Transaction, categories []model.Category, opts ...TransactionOption) *TransactionForm {
	o := transactionOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	f := &TransactionForm{categories: categories}
	if existing == nil {
		f.values = TransactionValues{
			Type:         model.TypeExpense,
			Date:         Today(o.now()),
			Status:       model.StatusPending,
			Installments: 1,
		}
		return f
	}

	f.id = existing.ID
	f.values = TransactionValues{
		Description:       existing.Description,
		Amount:            decimal.NewFromFloat(existing.Amount).StringFixed(2),
		Type:              existing.Type,
		CategoryID:        existing.CategoryID,
		AccountID:         existing.AccountID,
		Date:              existing.DateOnly(),
		Status:            existing.Status,
		ResponsiblePerson: existing.ResponsiblePerson,
		Installments:      1,
		IsRecurring:       existing.IsRecurring,
	}
	if existing.InstallmentInfo != nil && existing.InstallmentInfo.Total > 0 {
		f.values.Installments = existing.InstallmentInfo.Total
	}
	if f.values.Status == "" {
		f.values.Status = model.StatusPending
	}
	return f
}

// ID returns the id of the transaction being edited, zero for a new one.
func (f *TransactionForm) ID() model.ID { return f.id }

// Editing reports whether the form edits an existing transaction.
func (f *TransactionForm) Editing() bool { return !f.id.IsZero() }

// Values returns a copy of the current field values.
func (f *TransactionForm) Values() TransactionValues { return f.values }

// SetCategories replaces the category choices.
func (f *TransactionForm) SetCategories(categories []model.Category) {
	f.categories = categories
}

// VisibleCategories returns the categories matching the current type.
func (f *TransactionForm) VisibleCategories() []model.Category {
	return model.FilterCategories(f.categories, f.values.Type)
}

// HasHiddenCategory reports whether the selected category is not among the
// visible choices, which happens after switching type.
func (f *TransactionForm) HasHiddenCategory() bool {
	if f.values.CategoryID.IsZero() {
		return false
	}
	_, ok := model.FindCategory(f.VisibleCategories(), f.values.CategoryID)
	return !ok
}

// SetDescription sets the description field.
func (f *TransactionForm) SetDescription(v string) error {
	return f.edit(func() { f.values.Description = v })
}

// SetAmount sets the raw amount text.
func (f *TransactionForm) SetAmount(v string) error {
	return f.edit(func() { f.values.Amount = v })
}

// SetType switches between income and expense. The selected category is kept.
func (f *TransactionForm) SetType(t model.TransactionType) error {
	return f.edit(func() { f.values.Type = t })
}

// SetCategory selects a category.
func (f *TransactionForm) SetCategory(id model.ID) error {
	return f.edit(func() { f.values.CategoryID = id })
}

// SetAccount selects the account, zero for none.
func (f *TransactionForm) SetAccount(id model.ID) error {
	return f.edit(func() { f.values.AccountID = id })
}

// SetDate sets the raw date text.
func (f *TransactionForm) SetDate(v string) error {
	return f.edit(func() { f.values.Date = v })
}

// SetStatus sets the payment status.
func (f *TransactionForm) SetStatus(s model.TransactionStatus) error {
	return f.edit(func() { f.values.Status = s })
}

// SetResponsiblePerson sets who the transaction is attributed to.
func (f *TransactionForm) SetResponsiblePerson(v string) error {
	return f.edit(func() { f.values.ResponsiblePerson = v })
}

// SetInstallments sets the number of installments.
func (f *TransactionForm) SetInstallments(n int) error {
	return f.edit(func() { f.values.Installments = n })
}

// SetRecurring sets the recurrence flag.
func (f *TransactionForm) SetRecurring(v bool) error {
	return f.edit(func() { f.values.IsRecurring = v })
}

// Validate checks the fields and builds the payload without changing state.
func (f *TransactionForm) Validate() (model.TransactionPayload, error) {
	v := f.values

	description := strings.TrimSpace(v.Description)
	if description == "" {
		return model.TransactionPayload{}, invalid("description", ErrDescriptionRequired)
	}

	amount, err := money.ParseCurrency(v.Amount)
	if err != nil || !amount.IsPositive() {
		return model.TransactionPayload{}, invalid("amount", ErrAmountNotPositive)
	}

	if v.CategoryID.IsZero() {
		return model.TransactionPayload{}, invalid("category", ErrCategoryRequired)
	}

	date, err := NormalizeDate(v.Date)
	if err != nil {
		return model.TransactionPayload{}, invalid("date", ErrInvalidDate)
	}

	installments := v.Installments
	if installments < 1 {
		installments = 1
	}

	status := v.Status
	if status == "" {
		status = model.StatusPending
	}

	return model.TransactionPayload{
		Description:       description,
		Amount:            amount.InexactFloat64(),
		Type:              v.Type,
		CategoryID:        v.CategoryID,
		AccountID:         v.AccountID,
		Date:              date,
		Status:            status,
		ResponsiblePerson: strings.TrimSpace(v.ResponsiblePerson),
		Installments:      installments,
		IsRecurring:       v.IsRecurring,
	}, nil
}

// Begin validates the form and, on success, moves it to StateSubmitting and
// returns the payload to send. A validation failure moves it to StateError.
func (f *TransactionForm) Begin() (model.TransactionPayload, error) {
	if err := f.begin(); err != nil {
		return model.TransactionPayload{}, err
	}
	payload, err := f.Validate()
	if err != nil {
		f.fail(err)
		return model.TransactionPayload{}, err
	}
	f.state = StateSubmitting
	f.message = ""
	return payload, nil
}

// Finish records the outcome of a submission started with Begin. Field
// values are never touched, so a rejected submission loses nothing.
func (f *TransactionForm) Finish(err error) {
	f.finish(err)
}

// Submit runs Begin, fn and Finish in sequence.
func (f *TransactionForm) Submit(ctx context.Context, fn SubmitTransactionFunc) error {
	payload, err := f.Begin()
	if err != nil {
		return err
	}
	err = fn(ctx, payload)
	f.Finish(err)
	return err
}
