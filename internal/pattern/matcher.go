package pattern

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Matcher evaluates lines against a fixed rule set.
type Matcher struct {
	compiled map[int]*regexp.Regexp
	rules    []Rule
}

// NewMatcher validates rules and pre-compiles their regular expressions.
// Regular expressions match case-insensitively.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{
		rules:    rules,
		compiled: make(map[int]*regexp.Regexp),
	}

	for i, rule := range rules {
		if err := checkRule(rule); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, rule.Label(), err)
		}
		if rule.Regex && rule.Pattern != "" {
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): invalid pattern: %w", i+1, rule.Label(), err)
			}
			m.compiled[i] = re
		}
	}

	return m, nil
}

// Len returns the number of rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// Match returns the enabled rules matching line, highest priority first.
// Rules of equal priority keep their configured order.
func (m *Matcher) Match(line Line) []Rule {
	var matches []Rule

	for i, rule := range m.rules {
		if rule.Disabled {
			continue
		}
		if m.matchesRule(i, line, rule) {
			matches = append(matches, rule)
		}
	}

	slices.SortStableFunc(matches, func(a, b Rule) int {
		return b.Priority - a.Priority
	})
	return matches
}

func (m *Matcher) matchesRule(i int, line Line, rule Rule) bool {
	if rule.Type != "" && rule.Type != line.Type {
		return false
	}
	return m.matchesDescription(i, line, rule) && matchesAmount(line, rule)
}

// matchesDescription is a case-insensitive substring test unless the rule
// is a regular expression. An empty pattern matches every line.
func (m *Matcher) matchesDescription(i int, line Line, rule Rule) bool {
	if rule.Pattern == "" {
		return true
	}

	if rule.Regex {
		re, ok := m.compiled[i]
		return ok && re.MatchString(line.Description)
	}

	return strings.Contains(strings.ToLower(line.Description), strings.ToLower(rule.Pattern))
}

func matchesAmount(line Line, rule Rule) bool {
	amount := line.Amount
	value := func() decimal.Decimal { return decimal.NewFromFloat(*rule.AmountValue) }

	switch rule.Amount {
	case "", AmountAny:
		return true
	case AmountLT:
		return amount.LessThan(value())
	case AmountLE:
		return amount.LessThanOrEqual(value())
	case AmountEQ:
		return amount.Equal(value())
	case AmountGE:
		return amount.GreaterThanOrEqual(value())
	case AmountGT:
		return amount.GreaterThan(value())
	case AmountRange:
		if rule.AmountMin != nil && amount.LessThan(decimal.NewFromFloat(*rule.AmountMin)) {
			return false
		}
		if rule.AmountMax != nil && amount.GreaterThan(decimal.NewFromFloat(*rule.AmountMax)) {
			return false
		}
		return true
	}

	return false
}
