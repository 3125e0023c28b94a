package form

import (
	"context"
	"strings"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultAccountColor is used when the user does not pick a color.
const DefaultAccountColor = "#6366f1"

// AccountValues are the raw field values of an account form.
type AccountValues struct {
	Name           string
	Type           model.AccountType
	Institution    string
	Color          string
	Icon           string
	InitialBalance string
	IsActive       bool
}

// SubmitAccountFunc sends a validated account payload to the backend.
type SubmitAccountFunc func(ctx context.Context, payload model.AccountPayload) error

// AccountForm tracks the fields and lifecycle of an account form.
type AccountForm struct {
	id             model.ID
	values         AccountValues
	iconOverridden bool
	machine
}

// NewAccountForm creates a form from existing, or a new active wallet.
func NewAccountForm(existing *model.Account) *AccountForm {
	if existing == nil {
		return &AccountForm{values: AccountValues{
			Type:     model.AccountWallet,
			Color:    DefaultAccountColor,
			Icon:     model.AccountWallet.SuggestedIcon(),
			IsActive: true,
		}}
	}
	f := &AccountForm{
		id: existing.ID,
		values: AccountValues{
			Name:           existing.Name,
			Type:           existing.Type,
			Institution:    existing.Institution,
			Color:          existing.Color,
			Icon:           existing.Icon,
			InitialBalance: decimal.NewFromFloat(existing.InitialBalance).StringFixed(2),
			IsActive:       existing.IsActive,
		},
	}
	if f.values.Color == "" {
		f.values.Color = DefaultAccountColor
	}
	f.iconOverridden = existing.Icon != "" && existing.Icon != existing.Type.SuggestedIcon()
	return f
}

// ID returns the id of the account being edited, zero for a new one.
func (f *AccountForm) ID() model.ID { return f.id }

// Editing reports whether the form edits an existing account.
func (f *AccountForm) Editing() bool { return !f.id.IsZero() }

// Values returns a copy of the current field values.
func (f *AccountForm) Values() AccountValues { return f.values }

// IconOverridden reports whether the current icon was chosen by the user
// rather than suggested by the last type change.
func (f *AccountForm) IconOverridden() bool { return f.iconOverridden }

// SetName sets the account name.
func (f *AccountForm) SetName(v string) error {
	return f.edit(func() { f.values.Name = v })
}

// SetType changes the account type and writes the suggested icon for it.
func (f *AccountForm) SetType(t model.AccountType) error {
	return f.edit(func() {
		f.values.Type = t
		if icon := t.SuggestedIcon(); icon != "" {
			f.values.Icon = icon
			f.iconOverridden = false
		}
	})
}

// SetIcon sets a user chosen icon.
func (f *AccountForm) SetIcon(icon string) error {
	return f.edit(func() {
		f.values.Icon = icon
		f.iconOverridden = true
	})
}

// SetInstitution sets the bank or institution name.
func (f *AccountForm) SetInstitution(v string) error {
	return f.edit(func() { f.values.Institution = v })
}

// SetColor sets the display color.
func (f *AccountForm) SetColor(v string) error {
	return f.edit(func() { f.values.Color = v })
}

// SetInitialBalance sets the raw initial balance text.
func (f *AccountForm) SetInitialBalance(v string) error {
	return f.edit(func() { f.values.InitialBalance = v })
}

// SetActive toggles whether the account counts toward totals.
func (f *AccountForm) SetActive(v bool) error {
	return f.edit(func() { f.values.IsActive = v })
}

// Validate checks the fields and builds the payload without changing state.
func (f *AccountForm) Validate() (model.AccountPayload, error) {
	v := f.values

	name := strings.TrimSpace(v.Name)
	if name == "" {
		return model.AccountPayload{}, invalid("name", ErrNameRequired)
	}

	balance := decimal.Zero
	if strings.TrimSpace(v.InitialBalance) != "" {
		parsed, err := money.ParseCurrency(v.InitialBalance)
		if err != nil {
			return model.AccountPayload{}, invalid("initial_balance", ErrInvalidBalance)
		}
		balance = parsed
	}

	accountType := v.Type
	if !accountType.Valid() {
		accountType = model.AccountWallet
	}
	color := v.Color
	if color == "" {
		color = DefaultAccountColor
	}

	return model.AccountPayload{
		Name:           name,
		Type:           accountType,
		Institution:    strings.TrimSpace(v.Institution),
		Color:          color,
		Icon:           v.Icon,
		InitialBalance: balance.InexactFloat64(),
		IsActive:       v.IsActive,
	}, nil
}

// Begin validates and moves the form to StateSubmitting.
func (f *AccountForm) Begin() (model.AccountPayload, error) {
	if err := f.begin(); err != nil {
		return model.AccountPayload{}, err
	}
	payload, err := f.Validate()
	if err != nil {
		f.fail(err)
		return model.AccountPayload{}, err
	}
	f.state = StateSubmitting
	f.message = ""
	return payload, nil
}

// Finish records the outcome of a submission started with Begin.
func (f *AccountForm) Finish(err error) {
	f.finish(err)
}

// Submit runs Begin, fn and Finish in sequence.
func (f *AccountForm) Submit(ctx context.Context, fn SubmitAccountFunc) error {
	payload, err := f.Begin()
	if err != nil {
		return err
	}
	err = fn(ctx, payload)
	f.Finish(err)
	return err
}
