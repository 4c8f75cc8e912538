package calendar

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/pfrederiksen/bjcp-calendar/internal/competition"
)

const (
	ProductID    = "-//BJCP Calendar//bjcp-calendar//EN"
	CalendarName = "BJCP Competitions"
	uidDomain    = "bjcp-calendar"

	titleSeparator = " — "
)

// uidNamespace scopes the name-based event UIDs
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://app.bjcp.org/competition-calendar"))

// Kind identifies which date of a competition an event marks
type Kind string

const (
	KindEntryDeadline Kind = "Entry Deadline"
	KindJudgingDate   Kind = "Judging Date"
)

// Event is one all-day calendar entry derived from a record date
type Event struct {
	UID         string
	Kind        Kind
	Title       string
	Date        competition.Date
	Description string
	Location    string
}

// Calendar holds the events built from a list of records
type Calendar struct {
	Name   string
	Events []Event
}

// Build creates one event per non-nil date of each record: the entry deadline
// first, then the judging date.
func Build(records []*competition.Record) *Calendar {
	cal := &Calendar{
		Name:   CalendarName,
		Events: make([]Event, 0, 2*len(records)),
	}

	for i, rec := range records {
		if rec == nil {
			continue
		}
		if rec.EntryDeadline != nil {
			cal.Events = append(cal.Events, newEvent(i, rec, KindEntryDeadline, *rec.EntryDeadline))
		}
		if rec.JudgingDate != nil {
			cal.Events = append(cal.Events, newEvent(i, rec, KindJudgingDate, *rec.JudgingDate))
		}
	}

	return cal
}

func newEvent(index int, rec *competition.Record, kind Kind, date competition.Date) Event {
	return Event{
		UID:         eventUID(index, rec.Name, kind, date),
		Kind:        kind,
		Title:       rec.Name + titleSeparator + string(kind),
		Date:        date,
		Description: "Location: " + rec.Location,
		Location:    rec.Location,
	}
}

// eventUID derives a stable UID from the record position and event content.
// The index keeps identical rows from colliding.
func eventUID(index int, name string, kind Kind, date competition.Date) string {
	key := strings.Join([]string{strconv.Itoa(index), string(kind), name, date.String()}, "|")
	return fmt.Sprintf("%s@%s", uuid.NewSHA1(uidNamespace, []byte(key)), uidDomain)
}

// ICS converts the calendar into a golang-ical calendar stamped with the given time
func (c *Calendar) ICS(stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	if c.Name != "" {
		cal.SetXWRCalName(c.Name)
	}

	stamp = stamp.UTC()
	for _, evt := range c.Events {
		e := cal.AddEvent(evt.UID)
		e.SetDtStampTime(stamp)
		e.SetAllDayStartAt(evt.Date.Time())
		// DTEND is exclusive for all-day events
		e.SetAllDayEndAt(evt.Date.AddDays(1).Time())
		e.SetSummary(evt.Title)
		e.SetDescription(evt.Description)
		if evt.Location != "" {
			e.SetLocation(evt.Location)
		}
	}

	return cal
}

// Encode writes the calendar in iCalendar format with CRLF line endings
func (c *Calendar) Encode(w io.Writer, stamp time.Time) error {
	if err := c.ICS(stamp).SerializeTo(w, ics.WithNewLineWindows); err != nil {
		return fmt.Errorf("serializing calendar: %w", err)
	}
	return nil
}
