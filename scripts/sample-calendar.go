package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/bjcp-calendar/internal/calendar"
	"github.com/pfrederiksen/bjcp-calendar/internal/competition"
)

func main() {
	// Sample rows as they appear on the calendar page
	records := []*competition.Record{
		competition.NewRecord("Midwest Brew-Off", "Chicago", "2025-03-01", "2025-02-01"),
		competition.NewRecord("Cascade Cup", "Portland", "March 15, 2025", "TBD"),
	}

	cal := calendar.Build(records)

	filename := "sample-bjcp.ics"
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := cal.Encode(f, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d events)\n\n", filename, len(cal.Events))
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
}
