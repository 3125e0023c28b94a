package form

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	brDatePattern  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// Layouts tried, in order, for input that is neither ISO nor DD/MM/YYYY.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-1-2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate converts user or server supplied dates to YYYY-MM-DD.
//
// ISO dates are returned unchanged, DD/MM/YYYY is reordered, and anything
// else is parsed with a set of common layouts and rendered from its local
// calendar fields, so that an instant late in the evening west of UTC keeps
// its local day.
func NormalizeDate(s string) (string, error) {
	return normalizeDateIn(s, time.Local)
}

func normalizeDateIn(s string, loc *time.Location) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	if isoDatePattern.MatchString(s) {
		if _, err := time.Parse(isoLayout, s); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return s, nil
	}

	if m := brDatePattern.FindStringSubmatch(s); m != nil {
		iso := m[3] + "-" + m[2] + "-" + m[1]
		if _, err := time.Parse(isoLayout, iso); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return iso, nil
	}

	for _, layout := range genericLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Today returns the local calendar date in ISO form.
func Today(now time.Time) string {
	return now.Format(isoLayout)
}
