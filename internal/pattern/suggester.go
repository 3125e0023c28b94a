package pattern

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finflow/internal/model"
)

// Suggester picks a category for a line from the matching rules.
type Suggester struct {
	matcher    *Matcher
	categories []model.Category
}

// NewSuggester creates a suggester choosing among categories.
func NewSuggester(matcher *Matcher, categories []model.Category) *Suggester {
	return &Suggester{
		matcher:    matcher,
		categories: categories,
	}
}

// Suggest returns the category of the highest-priority matching rule whose
// category exists and has the line's type. Rules naming an unknown or
// mismatched category are passed over.
func (s *Suggester) Suggest(line Line) (Suggestion, bool) {
	if s == nil || s.matcher == nil {
		return Suggestion{}, false
	}

	for _, rule := range s.matcher.Match(line) {
		category, ok := s.lookup(rule.Category)
		if !ok {
			continue
		}
		if err := ValidateType(line, category); err != nil {
			continue
		}
		return Suggestion{
			Rule:     rule,
			Category: category,
			Reason:   reason(rule, category),
		}, true
	}
	return Suggestion{}, false
}

// Unresolved lists rules whose category matches no known category.
func (s *Suggester) Unresolved() []Rule {
	var missing []Rule
	for _, rule := range s.matcher.rules {
		if _, ok := s.lookup(rule.Category); !ok && !rule.Disabled {
			missing = append(missing, rule)
		}
	}
	return missing
}

// lookup resolves a category id first, then a case-insensitive name.
func (s *Suggester) lookup(ref string) (model.Category, bool) {
	for _, c := range s.categories {
		if c.ID.String() == ref {
			return c, true
		}
	}
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

// reason explains a suggestion in one line.
func reason(rule Rule, category model.Category) string {
	text := "every line"
	if rule.Pattern != "" {
		text = fmt.Sprintf("lines matching %q", rule.Pattern)
	}

	switch rule.Amount {
	case AmountLT, AmountLE:
		text += fmt.Sprintf(" under %.2f", *rule.AmountValue)
	case AmountGT, AmountGE:
		text += fmt.Sprintf(" over %.2f", *rule.AmountValue)
	case AmountEQ:
		text += fmt.Sprintf(" of %.2f", *rule.AmountValue)
	case AmountRange:
		switch {
		case rule.AmountMin != nil && rule.AmountMax != nil:
			text += fmt.Sprintf(" between %.2f and %.2f", *rule.AmountMin, *rule.AmountMax)
		case rule.AmountMin != nil:
			text += fmt.Sprintf(" from %.2f", *rule.AmountMin)
		default:
			text += fmt.Sprintf(" up to %.2f", *rule.AmountMax)
		}
	}

	if rule.Type != "" {
		text += fmt.Sprintf(" (%s)", rule.Type)
	}

	return text + " go to " + category.Name
}
