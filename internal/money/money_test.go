package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain integer", input: "150", want: "150"},
		{name: "plain decimal dot", input: "12.5", want: "12.5"},
		{name: "plain decimal two places", input: "12.50", want: "12.5"},
		{name: "pt-BR decimal comma", input: "12,34", want: "12.34"},
		{name: "pt-BR thousands and comma", input: "1.234,56", want: "1234.56"},
		{name: "currency symbol and spaces", input: "R$ 1.234,56", want: "1234.56"},
		{name: "thousands without decimals", input: "1.234", want: "1234"},
		{name: "multiple thousands groups", input: "1.234.567", want: "1234567"},
		{name: "negative value", input: "-50", want: "-50"},
		{name: "zero", input: "0", want: "0"},
		{name: "empty", input: "", wantErr: true},
		{name: "only symbol", input: "R$ ", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two commas", input: "1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestSum(t *testing.T) {
	total := Sum(0.1, 0.2, 0.3)
	assert.True(t, decimal.RequireFromString("0.6").Equal(total), "got %s", total)
	assert.True(t, Sum().IsZero())
}

func TestBRL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "R$ 0,00"},
		{"5000", "R$ 5.000,00"},
		{"1234.56", "R$ 1.234,56"},
		{"-42.1", "-R$ 42,10"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, BRL(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		want  string
		value float64
	}{
		{want: "12.5%", value: 12.5},
		{want: "33.3%", value: 33.333},
		{want: "0.0%", value: 0},
		{want: "-3.0%", value: -3},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(tt.value))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "25/12/2024", FormatDate("2024-12-25"))
	assert.Equal(t, "01/03/2024", FormatDate("2024-03-01T23:30:00-03:00"))
	assert.Equal(t, "not a date", FormatDate("not a date"))
	assert.Equal(t, "", FormatDate(""))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(13))
}
