// Package pattern categorizes imported statement lines with user-defined rules.
package pattern

import (
	"github.com/Veraticus/finflow/internal/model"
	"github.com/shopspring/decimal"
)

// Amount conditions a rule may place on a line.
const (
	AmountAny   = "any"
	AmountLT    = "lt"
	AmountLE    = "le"
	AmountEQ    = "eq"
	AmountGE    = "ge"
	AmountGT    = "gt"
	AmountRange = "range"
)

// Rule maps statement lines whose description matches Pattern to Category.
// Category is a category id or name. An empty Amount means any amount and
// an empty Type matches both income and expense lines.
type Rule struct {
	AmountValue *float64              `mapstructure:"amount_value"`
	AmountMin   *float64              `mapstructure:"amount_min"`
	AmountMax   *float64              `mapstructure:"amount_max"`
	Name        string                `mapstructure:"name"`
	Pattern     string                `mapstructure:"pattern"`
	Amount      string                `mapstructure:"amount"`
	Category    string                `mapstructure:"category"`
	Type        model.TransactionType `mapstructure:"type"`
	Priority    int                   `mapstructure:"priority"`
	Regex       bool                  `mapstructure:"regex"`
	Disabled    bool                  `mapstructure:"disabled"`
}

// Label names the rule for messages.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}

// Line is the part of a statement line the rules look at. Amount is
// unsigned; Type carries the direction.
type Line struct {
	Amount      decimal.Decimal
	Description string
	Type        model.TransactionType
}

// Suggestion is the category picked for a line and the rule that picked it.
type Suggestion struct {
	Rule     Rule
	Category model.Category
	Reason   string
}
