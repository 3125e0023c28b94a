package model

// AccountType classifies a balance-holding account.
type AccountType string

// Account types understood by the API.
const (
	AccountWallet     AccountType = "wallet"
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
)

// AccountTypes lists every account type in display order.
var AccountTypes = []AccountType{
	AccountWallet,
	AccountChecking,
	AccountSavings,
	AccountCreditCard,
	AccountInvestment,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name of the account type.
func (t AccountType) Label() string {
	switch t {
	case AccountWallet:
		return "Wallet"
	case AccountChecking:
		return "Checking"
	case AccountSavings:
		return "Savings"
	case AccountCreditCard:
		return "Credit card"
	case AccountInvestment:
		return "Investment"
	default:
		return string(t)
	}
}

// SuggestedIcon returns the icon suggested for newly typed accounts.
func (t AccountType) SuggestedIcon() string {
	switch t {
	case AccountChecking:
		return "bank"
	case AccountSavings:
		return "piggy-bank"
	case AccountCreditCard:
		return "credit-card"
	case AccountInvestment:
		return "graph-up-arrow"
	default:
		return "wallet2"
	}
}

// Account is a named balance-holding entity as returned by the API.
// CurrentBalance and InitialBalance are independent server-side values;
// the client never derives one from the other.
type Account struct {
	ProjectedBalance *float64    `json:"projected_balance,omitempty"`
	Limit            *float64    `json:"limit,omitempty"`
	ID               ID          `json:"id"`
	Name             string      `json:"name"`
	Type             AccountType `json:"type"`
	Institution      string      `json:"institution,omitempty"`
	Color            string      `json:"color"`
	Icon             string      `json:"icon,omitempty"`
	CurrentBalance   float64     `json:"current_balance"`
	InitialBalance   float64     `json:"initial_balance"`
	IsActive         bool        `json:"is_active"`
}

// ProjectedOrCurrent returns the server projected balance when present,
// falling back to the current balance.
func (a Account) ProjectedOrCurrent() float64 {
	if a.ProjectedBalance != nil {
		return *a.ProjectedBalance
	}
	return a.CurrentBalance
}

// AccountPayload is the request body for creating or updating an account.
type AccountPayload struct {
	Name           string      `json:"name"`
	Type           AccountType `json:"type"`
	Institution    string      `json:"institution"`
	Color          string      `json:"color"`
	Icon           string      `json:"icon"`
	InitialBalance float64     `json:"initial_balance"`
	IsActive       bool        `json:"is_active"`
}
