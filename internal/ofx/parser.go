// Package ofx reads OFX/QFX bank statements into entries that can be
// submitted through the transaction form.
package ofx

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tag at end of line with no closing bracket.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Entry is one statement line.
type Entry struct {
	Amount      decimal.Decimal
	FITID       string
	Account     string
	Description string
	Date        string
	Kind        string
	Type        model.TransactionType
}

// Hash identifies an entry by its content so the same line exported twice
// is imported once.
func (e Entry) Hash() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		e.Account,
		e.Date,
		e.Amount.StringFixed(2),
		string(e.Type),
		strings.ToUpper(e.Description),
	}, "|")))
	return hex.EncodeToString(sum[:])
}

// Apply copies the entry into a transaction form. Statement lines have
// already cleared, so the status is paid.
func (e Entry) Apply(f *form.TransactionForm, categoryID, accountID model.ID) error {
	steps := []func() error{
		func() error { return f.SetType(e.Type) },
		func() error { return f.SetDescription(e.Description) },
		func() error { return f.SetAmount(e.Amount.StringFixed(2)) },
		func() error { return f.SetDate(e.Date) },
		func() error { return f.SetCategory(categoryID) },
		func() error { return f.SetAccount(accountID) },
		func() error { return f.SetStatus(model.StatusPaid) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: common.Component(logger, "ofx")}
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("failed to parse OFX file: %w", io.ErrUnexpectedEOF)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its statement lines in file
// order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
	}

	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
	}

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, account string) []Entry {
	entries := make([]Entry, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		entry, ok := convertTransaction(tx, account)
		if !ok {
			p.logger.Warn("Skipping zero-amount OFX transaction", "fitid", string(tx.FiTID))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// convertTransaction maps an OFX line to an entry. OFX signs debits
// negative; the entry keeps a positive amount and moves the sign into Type.
func convertTransaction(tx ofxgo.Transaction, account string) (Entry, bool) {
	amount, _ := tx.TrnAmt.Float64()
	value := decimal.NewFromFloat(amount).Round(2)
	if value.IsZero() {
		return Entry{}, false
	}

	entryType := model.TypeIncome
	if value.IsNegative() {
		entryType = model.TypeExpense
		value = value.Neg()
	}

	return Entry{
		Amount:      value,
		FITID:       string(tx.FiTID),
		Account:     account,
		Description: extractDescription(tx),
		Date:        tx.DtPosted.Time.Format(money.ISODate),
		Kind:        tx.TrnType.String(),
		Type:        entryType,
	}, true
}

// extractDescription tries to get a clean merchant name from OFX data.
func extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"COMPRA CARTAO ",
		"PIX ENVIADO ",
		"PIX RECEBIDO ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " leading dates
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if name == "" {
		return tx.TrnType.String()
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE", "PIX":
		return true
	}
	return false
}

// Accounts returns the sorted account numbers found in the file.
func (p *Parser) Accounts(reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}

// Dedupe drops entries whose Hash was already seen, keeping the first.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		h := e.Hash()
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, e)
	}
	return out
}
