package pattern

import (
	"errors"
	"fmt"

	"github.com/Veraticus/finflow/internal/model"
)

// ErrTypeMismatch is returned when a rule would file a line under a category
// of the other type.
var ErrTypeMismatch = errors.New("category type does not match line type")

// checkRule rejects rules that can never be evaluated.
func checkRule(rule Rule) error {
	if rule.Category == "" {
		return errors.New("category is required")
	}
	if rule.Type != "" && !rule.Type.Valid() {
		return fmt.Errorf("type must be income or expense, got %q", rule.Type)
	}

	switch rule.Amount {
	case "", AmountAny:
	case AmountLT, AmountLE, AmountEQ, AmountGE, AmountGT:
		if rule.AmountValue == nil {
			return fmt.Errorf("amount %q needs amount_value", rule.Amount)
		}
	case AmountRange:
		if rule.AmountMin == nil && rule.AmountMax == nil {
			return errors.New("amount range needs amount_min or amount_max")
		}
		if rule.AmountMin != nil && rule.AmountMax != nil && *rule.AmountMin > *rule.AmountMax {
			return errors.New("amount_min is greater than amount_max")
		}
	default:
		return fmt.Errorf("unknown amount condition %q", rule.Amount)
	}
	return nil
}

// ValidateType ensures a line is only filed under a category of its own type.
func ValidateType(line Line, category model.Category) error {
	if category.Type != line.Type {
		return fmt.Errorf("%w: %q is %s but the line is %s", ErrTypeMismatch, category.Name, category.Type, line.Type)
	}
	return nil
}
