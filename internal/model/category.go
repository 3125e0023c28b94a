package model

// Category is a user-facing classification tag scoped to income or expense.
type Category struct {
	ID    ID              `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color,omitempty"`
	Icon  string          `json:"icon,omitempty"`
}

// CategoryPayload is the request body for creating or updating a category.
type CategoryPayload struct {
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color,omitempty"`
	Icon  string          `json:"icon,omitempty"`
}

// FilterCategories returns the categories whose type equals t, preserving order.
func FilterCategories(categories []Category, t TransactionType) []Category {
	filtered := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id ID) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
