package money

import "time"

// ISODate is the wire layout for calendar dates.
const ISODate = "2006-01-02"

// DisplayDate is the layout used when showing dates to the user.
const DisplayDate = "02/01/2006"

// FormatDate converts an ISO date (optionally followed by a time component)
// to the display layout. The calendar fields are kept as written so that a
// date never shifts across timezones. Unparseable input is returned as is.
func FormatDate(iso string) string {
	if len(iso) < len(ISODate) {
		return iso
	}
	t, err := time.Parse(ISODate, iso[:len(ISODate)])
	if err != nil {
		return iso
	}
	return t.Format(DisplayDate)
}

// MonthName returns the English month name for a 1-based month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}
