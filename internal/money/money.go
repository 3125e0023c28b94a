// Package money parses and formats monetary amounts and calendar dates for display.
//
// Amounts typed by users follow the pt-BR convention ("R$ 1.234,56") but plain
// decimal input ("1234.56") is accepted as well. Arithmetic is done with
// shopspring/decimal so that summing balances never accumulates float error.
package money

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrInvalidAmount is returned when a string cannot be read as an amount.
var ErrInvalidAmount = errors.New("invalid amount")

// DefaultSymbol is the currency symbol used by the default formatter.
const DefaultSymbol = "R$"

// ParseCurrency reads a locale formatted currency string.
//
// Whitespace and the currency symbol are ignored. When the input contains a
// comma, dots are thousands separators and the comma is the decimal mark. Without
// a comma, a single dot followed by one or two digits is a decimal mark and any
// other dots are thousands separators.
func ParseCurrency(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.ReplaceAll(cleaned, DefaultSymbol, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = cleaned[1:]
	} else if strings.HasPrefix(cleaned, "+") {
		cleaned = cleaned[1:]
	}

	switch {
	case strings.Contains(cleaned, ","):
		if strings.Count(cleaned, ",") > 1 {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case strings.Count(cleaned, ".") == 1 && hasShortFraction(cleaned):
		// plain decimal such as 12.5 or 12.50
	default:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	for _, r := range cleaned {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	if cleaned == "" || cleaned == "." {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func hasShortFraction(s string) bool {
	idx := strings.LastIndex(s, ".")
	frac := len(s) - idx - 1
	return frac >= 1 && frac <= 2
}

// Sum adds float amounts exactly at cent precision.
func Sum(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

// Formatter renders an amount for display.
type Formatter func(decimal.Decimal) string

// NewFormatter returns a Formatter grouping digits according to tag and
// prefixing symbol.
func NewFormatter(tag language.Tag, symbol string) Formatter {
	printer := message.NewPrinter(tag)
	return func(d decimal.Decimal) string {
		sign := ""
		if d.IsNegative() {
			sign = "-"
			d = d.Neg()
		}
		value := d.Round(2).InexactFloat64()
		return sign + symbol + " " + printer.Sprint(number.Decimal(value, number.Scale(2)))
	}
}

// BRL formats amounts as Brazilian reais, e.g. "R$ 1.234,56".
var BRL = NewFormatter(language.BrazilianPortuguese, DefaultSymbol)

// FormatPercent renders a share with one decimal, e.g. "12.5%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
