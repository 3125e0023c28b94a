package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/finflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejection struct{ msg string }

func (r rejection) Error() string      { return "request failed with status 400" }
func (r rejection) APIMessage() string { return r.msg }

var testCategories = []model.Category{
	{ID: "1", Name: "Salary", Type: model.TypeIncome},
	{ID: "2", Name: "Groceries", Type: model.TypeExpense},
	{ID: "3", Name: "Rent", Type: model.TypeExpense},
	{ID: "4", Name: "Freelance", Type: model.TypeIncome},
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
}

func validForm(t *testing.T) *TransactionForm {
	t.Helper()
	f := NewTransactionForm(nil, testCategories, WithClock(fixedClock))
	require.NoError(t, f.SetDescription("  Weekly shopping "))
	require.NoError(t, f.SetAmount("R$ 1.234,56"))
	require.NoError(t, f.SetCategory("2"))
	return f
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "iso passes through", input: "2024-03-15", want: "2024-03-15"},
		{name: "day month year reordered", input: "25/12/2024", want: "2024-12-25"},
		{name: "surrounding whitespace", input: " 01/02/2024 ", want: "2024-02-01"},
		{name: "slashed iso", input: "2024/07/04", want: "2024-07-04"},
		{name: "long form", input: "March 5, 2024", want: "2024-03-05"},
		{name: "local datetime", input: "2024-03-15T23:59:00", want: "2024-03-15"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "tomorrow", wantErr: true},
		{name: "impossible iso", input: "2024-02-30", wantErr: true},
		{name: "impossible day month", input: "31/04/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDateUsesLocalCalendarFields(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	// 02:00 UTC on March 1st is still February 29th in UTC-3.
	got, err := normalizeDateIn("2024-03-01T02:00:00Z", saoPaulo)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)

	got, err = normalizeDateIn("2024-03-01T02:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)
}

func TestNewTransactionFormDefaults(t *testing.T) {
	f := NewTransactionForm(nil, testCategories, WithClock(fixedClock))
	v := f.Values()

	assert.Equal(t, "2024-03-15", v.Date)
	assert.Equal(t, 1, v.Installments)
	assert.Equal(t, model.StatusPending, v.Status)
	assert.Equal(t, model.TypeExpense, v.Type)
	assert.Equal(t, StateIdle, f.State())
	assert.False(t, f.Editing())
}

func TestNewTransactionFormFromExisting(t *testing.T) {
	existing := &model.Transaction{
		ID:                "42",
		Description:       "Internet",
		Amount:            99.9,
		Type:              model.TypeExpense,
		CategoryID:        "3",
		AccountID:         "7",
		Date:              "2024-02-10T00:00:00Z",
		Status:            model.StatusPaid,
		ResponsiblePerson: "ana",
		InstallmentInfo:   &model.InstallmentInfo{Current: 2, Total: 6},
	}

	f := NewTransactionForm(existing, testCategories)
	v := f.Values()

	assert.True(t, f.Editing())
	assert.Equal(t, model.ID("42"), f.ID())
	assert.Equal(t, "Internet", v.Description)
	assert.Equal(t, "99.90", v.Amount)
	assert.Equal(t, "2024-02-10", v.Date)
	assert.Equal(t, model.StatusPaid, v.Status)
	assert.Equal(t, 6, v.Installments)

	payload, err := f.Validate()
	require.NoError(t, err)
	assert.InDelta(t, 99.9, payload.Amount, 0.0001)
}

func TestTransactionFormValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *TransactionForm)
		wantErr error
		field   string
	}{
		{
			name: "blank description checked first",
			mutate: func(f *TransactionForm) {
				_ = f.SetDescription("   ")
				_ = f.SetAmount("0")
				_ = f.SetCategory("")
			},
			wantErr: ErrDescriptionRequired,
			field:   "description",
		},
		{
			name:    "zero amount",
			mutate:  func(f *TransactionForm) { _ = f.SetAmount("0") },
			wantErr: ErrAmountNotPositive,
			field:   "amount",
		},
		{
			name:    "negative amount",
			mutate:  func(f *TransactionForm) { _ = f.SetAmount("-10") },
			wantErr: ErrAmountNotPositive,
			field:   "amount",
		},
		{
			name:    "unparseable amount",
			mutate:  func(f *TransactionForm) { _ = f.SetAmount("ten") },
			wantErr: ErrAmountNotPositive,
			field:   "amount",
		},
		{
			name:    "missing category",
			mutate:  func(f *TransactionForm) { _ = f.SetCategory("") },
			wantErr: ErrCategoryRequired,
			field:   "category",
		},
		{
			name:    "bad date",
			mutate:  func(f *TransactionForm) { _ = f.SetDate("someday") },
			wantErr: ErrInvalidDate,
			field:   "date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm(t)
			tt.mutate(f)
			before := f.Values()

			called := false
			err := f.Submit(context.Background(), func(context.Context, model.TransactionPayload) error {
				called = true
				return nil
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.False(t, called)
			assert.Equal(t, StateError, f.State())
			assert.Equal(t, tt.wantErr.Error(), f.Message())
			assert.Equal(t, before, f.Values())
		})
	}
}

func TestTransactionFormZeroAmountKeepsDescription(t *testing.T) {
	f := validForm(t)
	require.NoError(t, f.SetAmount("0"))

	_, err := f.Begin()
	require.ErrorIs(t, err, ErrAmountNotPositive)
	assert.Equal(t, "  Weekly shopping ", f.Values().Description)
}

func TestTransactionFormSubmitPayload(t *testing.T) {
	f := validForm(t)
	require.NoError(t, f.SetDate("25/12/2024"))
	require.NoError(t, f.SetInstallments(0))
	require.NoError(t, f.SetAccount("9"))
	require.NoError(t, f.SetRecurring(true))

	var got model.TransactionPayload
	err := f.Submit(context.Background(), func(_ context.Context, p model.TransactionPayload) error {
		assert.Equal(t, StateSubmitting, f.State())
		got = p
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, StateIdle, f.State())
	assert.Empty(t, f.Message())
	assert.Equal(t, "Weekly shopping", got.Description)
	assert.InDelta(t, 1234.56, got.Amount, 0.0001)
	assert.Equal(t, "2024-12-25", got.Date)
	assert.Equal(t, 1, got.Installments)
	assert.Equal(t, model.ID("2"), got.CategoryID)
	assert.Equal(t, model.ID("9"), got.AccountID)
	assert.True(t, got.IsRecurring)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestTransactionFormFailedSubmitKeepsFields(t *testing.T) {
	f := validForm(t)
	require.NoError(t, f.SetResponsiblePerson("joao"))
	before := f.Values()

	err := f.Submit(context.Background(), func(context.Context, model.TransactionPayload) error {
		return rejection{msg: "category does not exist"}
	})

	require.Error(t, err)
	assert.Equal(t, StateError, f.State())
	assert.Equal(t, "category does not exist", f.Message())
	assert.Equal(t, before, f.Values())
}

func TestTransactionFormFailedSubmitPlainError(t *testing.T) {
	f := validForm(t)

	_, err := f.Begin()
	require.NoError(t, err)
	f.Finish(errors.New("network unreachable"))

	assert.Equal(t, StateError, f.State())
	assert.Equal(t, "network unreachable", f.Message())
}

func TestTransactionFormRejectsEditsWhileSubmitting(t *testing.T) {
	f := validForm(t)

	_, err := f.Begin()
	require.NoError(t, err)
	assert.True(t, f.Submitting())

	assert.ErrorIs(t, f.SetDescription("changed"), ErrBusy)
	_, err = f.Begin()
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "  Weekly shopping ", f.Values().Description)

	f.Finish(nil)
	assert.Equal(t, StateIdle, f.State())
	require.NoError(t, f.SetDescription("changed"))
}

func TestTransactionFormEditClearsError(t *testing.T) {
	f := validForm(t)
	require.NoError(t, f.SetCategory(""))
	_, err := f.Begin()
	require.Error(t, err)
	require.Equal(t, StateError, f.State())

	require.NoError(t, f.SetCategory("3"))
	assert.Equal(t, StateIdle, f.State())
	assert.Empty(t, f.Message())
}

func TestTransactionFormFinishWithoutBeginIsIgnored(t *testing.T) {
	f := validForm(t)
	f.Finish(errors.New("late"))
	assert.Equal(t, StateIdle, f.State())
}

func TestTransactionFormCategoryFiltering(t *testing.T) {
	f := NewTransactionForm(nil, testCategories, WithClock(fixedClock))
	require.NoError(t, f.SetCategory("2"))

	names := func(cats []model.Category) []string {
		out := make([]string, 0, len(cats))
		for _, c := range cats {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Groceries", "Rent"}, names(f.VisibleCategories()))
	assert.False(t, f.HasHiddenCategory())

	require.NoError(t, f.SetType(model.TypeIncome))
	assert.Equal(t, []string{"Salary", "Freelance"}, names(f.VisibleCategories()))
	assert.Equal(t, model.ID("2"), f.Values().CategoryID)
	assert.True(t, f.HasHiddenCategory())
}

func TestAccountForm(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := NewAccountForm(nil)
		v := f.Values()
		assert.Equal(t, model.AccountWallet, v.Type)
		assert.Equal(t, "wallet2", v.Icon)
		assert.Equal(t, DefaultAccountColor, v.Color)
		assert.True(t, v.IsActive)
	})

	t.Run("name required", func(t *testing.T) {
		f := NewAccountForm(nil)
		_, err := f.Begin()
		require.ErrorIs(t, err, ErrNameRequired)
		assert.Equal(t, StateError, f.State())
	})

	t.Run("bad initial balance", func(t *testing.T) {
		f := NewAccountForm(nil)
		require.NoError(t, f.SetName("Nubank"))
		require.NoError(t, f.SetInitialBalance("lots"))
		_, err := f.Begin()
		require.ErrorIs(t, err, ErrInvalidBalance)
	})

	t.Run("blank initial balance is zero", func(t *testing.T) {
		f := NewAccountForm(nil)
		require.NoError(t, f.SetName("Cash"))
		p, err := f.Validate()
		require.NoError(t, err)
		assert.Zero(t, p.InitialBalance)
	})

	t.Run("submit", func(t *testing.T) {
		f := NewAccountForm(nil)
		require.NoError(t, f.SetName(" Itau "))
		require.NoError(t, f.SetType(model.AccountChecking))
		require.NoError(t, f.SetInitialBalance("1.500,00"))

		var got model.AccountPayload
		err := f.Submit(context.Background(), func(_ context.Context, p model.AccountPayload) error {
			got = p
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Itau", got.Name)
		assert.Equal(t, model.AccountChecking, got.Type)
		assert.Equal(t, "bank", got.Icon)
		assert.InDelta(t, 1500.0, got.InitialBalance, 0.0001)
	})

	t.Run("failed submit keeps fields", func(t *testing.T) {
		f := NewAccountForm(nil)
		require.NoError(t, f.SetName("Savings"))
		before := f.Values()
		err := f.Submit(context.Background(), func(context.Context, model.AccountPayload) error {
			return rejection{msg: "duplicate name"}
		})
		require.Error(t, err)
		assert.Equal(t, "duplicate name", f.Message())
		assert.Equal(t, before, f.Values())
	})
}

func TestAccountFormIconLastWriteWins(t *testing.T) {
	f := NewAccountForm(nil)

	require.NoError(t, f.SetType(model.AccountSavings))
	assert.Equal(t, "piggy-bank", f.Values().Icon)
	assert.False(t, f.IconOverridden())

	require.NoError(t, f.SetIcon("star"))
	assert.Equal(t, "star", f.Values().Icon)
	assert.True(t, f.IconOverridden())

	require.NoError(t, f.SetType(model.AccountInvestment))
	assert.Equal(t, "graph-up-arrow", f.Values().Icon)
	assert.False(t, f.IconOverridden())
}

func TestErrorMessage(t *testing.T) {
	assert.Empty(t, ErrorMessage(nil))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "nope", ErrorMessage(rejection{msg: "nope"}))
	assert.Equal(t, "request failed with status 400", ErrorMessage(rejection{}))
}
