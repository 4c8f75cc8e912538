// Package calendar turns competition records into an all-day iCalendar feed.
//
// Build is a pure transform: every non-nil entry deadline and judging date on a record
// becomes one all-day event, in record order, with no deduplication or sorting. Encode
// serializes the result with golang-ical.
package calendar
