package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type fieldOrder int

const (
	orderYMD fieldOrder = iota
	orderMDY
	orderDMY
)

// Tried in order. The separator decides between MDY and DMY.
var datePatterns = []struct {
	re    *regexp.Regexp
	order fieldOrder
}{
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`), orderYMD},   // YYYY-MM-DD
	{regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`), orderMDY},   // MM/DD/YYYY
	{regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`), orderDMY},   // DD-MM-YYYY
	{regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`), orderDMY}, // DD.MM.YYYY
}

// Free-form layouts tried when none of the fixed patterns match
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"2006/01/02",
	"2006/1/2",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Mon, 2 Jan 2006",
	"Mon Jan 2 2006",
}

// ParseDate parses a loosely formatted receipt date into a calendar date.
// ok is false when no pattern or fallback layout produced a valid date.
func ParseDate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var y, mo, d string
		switch p.order {
		case orderYMD:
			y, mo, d = m[1], m[2], m[3]
		case orderMDY:
			y, mo, d = m[3], m[1], m[2]
		case orderDMY:
			y, mo, d = m[3], m[2], m[1]
		}

		if date, ok := calendarDate(y, mo, d); ok {
			return date, true
		}
	}

	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarDate builds a UTC midnight date and rejects values time.Date would roll over
func calendarDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
