package model

// TransactionType indicates whether money comes in or goes out.
type TransactionType string

// Transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

// Transaction statuses.
const (
	StatusPaid      TransactionStatus = "paid"
	StatusPending   TransactionStatus = "pending"
	StatusOverdue   TransactionStatus = "overdue"
	StatusCancelled TransactionStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Label returns the display label for the status.
func (s TransactionStatus) Label() string {
	switch s {
	case StatusPaid:
		return "Paid"
	case StatusOverdue:
		return "Overdue"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Pending"
	}
}

// InstallmentInfo locates a transaction inside a split purchase.
type InstallmentInfo struct {
	ParentID ID  `json:"parent_id,omitempty"`
	Current  int `json:"current"`
	Total    int `json:"total"`
}

// Transaction is a single dated income or expense event.
type Transaction struct {
	Category          *Category         `json:"category,omitempty"`
	InstallmentInfo   *InstallmentInfo  `json:"installment_info,omitempty"`
	ID                ID                `json:"id"`
	Description       string            `json:"description"`
	Type              TransactionType   `json:"type"`
	CategoryID        ID                `json:"category_id"`
	AccountID         ID                `json:"account_id,omitempty"`
	Date              string            `json:"date"`
	Status            TransactionStatus `json:"status,omitempty"`
	ResponsiblePerson string            `json:"responsible_person,omitempty"`
	Amount            float64           `json:"amount"`
	IsRecurring       bool              `json:"is_recurring,omitempty"`
}

// DateOnly returns the calendar part of Date, dropping any time component
// the server may have attached.
func (t Transaction) DateOnly() string {
	if len(t.Date) >= 10 {
		return t.Date[:10]
	}
	return t.Date
}

// SignedAmount returns the amount negated for expenses.
func (t Transaction) SignedAmount() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// TransactionPayload is the normalized body sent when creating or updating
// a transaction.
type TransactionPayload struct {
	Description       string            `json:"description"`
	Type              TransactionType   `json:"type"`
	CategoryID        ID                `json:"category_id"`
	AccountID         ID                `json:"account_id,omitempty"`
	Date              string            `json:"date"`
	Status            TransactionStatus `json:"status"`
	ResponsiblePerson string            `json:"responsible_person"`
	Amount            float64           `json:"amount"`
	Installments      int               `json:"installments"`
	IsRecurring       bool              `json:"is_recurring"`
}

// TransactionFilter narrows a transaction listing. Zero values are omitted
// from the request.
type TransactionFilter struct {
	CategoryID ID
	Type       TransactionType
	Month      int
	Year       int
}
