package model

// ImportResult summarizes a server-side statement import.
type ImportResult struct {
	Errors                []string `json:"errors,omitempty"`
	CategoriesCreatedList []string `json:"categories_created_list,omitempty"`
	AccountName           string   `json:"account_name,omitempty"`
	ImportedCount         int      `json:"imported_count"`
	ErrorCount            int      `json:"error_count"`
	CategoriesCreated     int      `json:"categories_created,omitempty"`
	AccountCreated        bool     `json:"account_created,omitempty"`
}

// Total returns the number of rows the server looked at.
func (r ImportResult) Total() int {
	return r.ImportedCount + r.ErrorCount
}
