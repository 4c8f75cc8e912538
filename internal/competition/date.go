package competition

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the layout used for a Date's text and JSON forms
const ISOLayout = "2006-01-02"

// ErrUnparseableDate is returned by ParseDate for empty, malformed or ambiguous text
var ErrUnparseableDate = errors.New("unparseable date")

// Date is a calendar day with no time-of-day or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC at the start of the day
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Time().Format(ISOLayout)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return fmt.Errorf("decoding date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// Layouts tried in order. Numeric forms are read month-first, as the calendar is
// US based; the day-first slash forms only match when the first number cannot be a month.
var dateLayouts = []string{
	ISOLayout,
	"2006/01/02",
	"20060102",
	"1/2/2006",
	"1/2/06",
	"2/1/2006",
	"2/1/06",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Monday, Jan 2, 2006",
	"Mon, January 2, 2006",
	"Mon, Jan 2, 2006",
	"Mon Jan 2, 2006",
	"Mon Jan 2 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Layouts without a year; the current year is assumed
var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
}

var (
	ordinalSuffix = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)
	dottedDate    = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4}|\d{2})$`)
)

// ParseDate leniently parses the text of a calendar cell into a Date.
// Supports ISO dates, US numeric dates ("3/1/2025"), month names ("March 1, 2025",
// "Mar 1st 2025"), weekday prefixes, dotted dates, and month-day without a year.
// Returns an error wrapping ErrUnparseableDate when no reading is possible or the
// text is ambiguous.
func ParseDate(text string) (Date, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return Date{}, fmt.Errorf("%w: empty text", ErrUnparseableDate)
	}
	cleaned := ordinalSuffix.ReplaceAllString(text, "$1")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return DateOf(t), nil
		}
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return Date{Year: time.Now().Year(), Month: t.Month(), Day: t.Day()}, nil
		}
	}

	if m := dottedDate.FindStringSubmatch(cleaned); m != nil {
		return parseDotted(text, m[1], m[2], m[3])
	}

	return Date{}, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
}

// parseDotted reads "d.m.y" or "m.d.y". Both orders are in use, so the date is
// only accepted when just one of them gives a valid day.
func parseDotted(text, first, second, year string) (Date, error) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	y, _ := strconv.Atoi(year)
	if len(year) == 2 {
		// same pivot as time.Parse with "06"
		if y >= 69 {
			y += 1900
		} else {
			y += 2000
		}
	}

	monthFirst, okMonthFirst := validDate(y, a, b)
	dayFirst, okDayFirst := validDate(y, b, a)

	switch {
	case okMonthFirst && okDayFirst && monthFirst != dayFirst:
		return Date{}, fmt.Errorf("%w: %q is ambiguous", ErrUnparseableDate, text)
	case okMonthFirst:
		return monthFirst, nil
	case okDayFirst:
		return dayFirst, nil
	default:
		return Date{}, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
	}
}

// validDate reports whether month and day form a real date in year
func validDate(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 || day < 1 {
		return Date{}, false
	}
	d := Date{Year: year, Month: time.Month(month), Day: day}
	if DateOf(d.Time()) != d {
		return Date{}, false
	}
	return d, true
}

// ParseOptionalDate parses text like ParseDate but returns nil instead of an error
func ParseOptionalDate(text string) *Date {
	d, err := ParseDate(text)
	if err != nil {
		return nil
	}
	return &d
}
