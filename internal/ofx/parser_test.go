package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>3200.00
<FITID>2024012201
<NAME>CREDIT
<MEMO>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func newTestParser() *Parser {
	return NewParser(common.DiscardLogger())
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 4,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := newTestParser().ParseFile(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.expectedCount)
		})
	}
}

func TestParseBankEntries(t *testing.T) {
	entries, err := newTestParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	coffee := entries[0]
	assert.Equal(t, "2024011501", coffee.FITID)
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Description)
	assert.Equal(t, "25.50", coffee.Amount.StringFixed(2))
	assert.Equal(t, model.TypeExpense, coffee.Type)
	assert.Equal(t, "1234567890", coffee.Account)
	assert.Equal(t, "2024-01-15", coffee.Date)
	assert.Equal(t, "DEBIT", coffee.Kind)

	assert.Equal(t, "Whole Foods Market", entries[1].Description)
	assert.Equal(t, "125.00", entries[1].Amount.StringFixed(2))

	salary := entries[2]
	assert.Equal(t, "ACME PAYROLL", salary.Description, "generic NAME falls back to MEMO")
	assert.Equal(t, model.TypeIncome, salary.Type)
	assert.True(t, decimal.NewFromInt(3200).Equal(salary.Amount))

	check := entries[3]
	assert.Equal(t, "CHECK #1234", check.Description)
	assert.Equal(t, "500.00", check.Amount.StringFixed(2))
}

func TestParseCreditCardEntries(t *testing.T) {
	entries, err := newTestParser().ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "CC2024011001", entries[0].FITID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", entries[0].Description)
	assert.Equal(t, "45.99", entries[0].Amount.StringFixed(2))
	assert.Equal(t, "4111111111111111", entries[0].Account)
	assert.Equal(t, "NETFLIX.COM", entries[1].Description)
}

func TestParseFileHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser().ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		memo     string
		expected string
	}{
		{name: "remove POS prefix", input: "POS PURCHASE STARBUCKS", expected: "STARBUCKS"},
		{name: "remove DEBIT CARD prefix", input: "DEBIT CARD PURCHASE WHOLE FOODS", expected: "WHOLE FOODS"},
		{name: "remove pix prefix", input: "PIX ENVIADO Maria Silva", expected: "Maria Silva"},
		{name: "strip leading date", input: "01/15 PADARIA REAL", expected: "PADARIA REAL"},
		{name: "keep clean name", input: "NETFLIX.COM", expected: "NETFLIX.COM"},
		{name: "trim whitespace", input: "  AMAZON.COM  ", expected: "AMAZON.COM"},
		{name: "generic name uses memo", input: "PAYMENT", memo: "CONDOMINIO", expected: "CONDOMINIO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.input),
				Memo: ofxgo.String(tt.memo),
			}
			assert.Equal(t, tt.expected, extractDescription(tx))
		})
	}
}

func TestDedupe(t *testing.T) {
	base := Entry{
		Amount:      decimal.RequireFromString("25.50"),
		FITID:       "TX001",
		Account:     "123456",
		Description: "Starbucks",
		Date:        "2024-01-15",
		Type:        model.TypeExpense,
	}
	sameContent := base
	sameContent.FITID = "TX002"
	sameContent.Description = "STARBUCKS"
	otherAmount := base
	otherAmount.Amount = decimal.NewFromInt(30)
	otherDate := base
	otherDate.Date = "2024-01-16"

	assert.Equal(t, base.Hash(), sameContent.Hash())
	assert.NotEqual(t, base.Hash(), otherAmount.Hash())
	assert.NotEqual(t, base.Hash(), otherDate.Hash())

	assert.Equal(t, []Entry{base, otherAmount, otherDate}, Dedupe([]Entry{base, sameContent, otherAmount, otherDate}))
}

func TestEntryApply(t *testing.T) {
	categories := []model.Category{{ID: "food", Name: "Food", Type: model.TypeExpense}}
	f := form.NewTransactionForm(nil, categories, form.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	}))

	entry := Entry{
		Amount:      decimal.RequireFromString("1234.5"),
		Description: "Mercado",
		Date:        "2024-01-15",
		Type:        model.TypeExpense,
	}
	require.NoError(t, entry.Apply(f, "food", "acc-1"))

	payload, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Mercado", payload.Description)
	assert.InDelta(t, 1234.5, payload.Amount, 0.0001)
	assert.Equal(t, "2024-01-15", payload.Date)
	assert.Equal(t, model.ID("food"), payload.CategoryID)
	assert.Equal(t, model.ID("acc-1"), payload.AccountID)
	assert.Equal(t, model.StatusPaid, payload.Status)
	assert.Equal(t, 1, payload.Installments)
}

func TestAccounts(t *testing.T) {
	parser := newTestParser()

	accounts, err := parser.Accounts(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = parser.Accounts(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)
}
