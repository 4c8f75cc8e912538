// Package cli implements the command-line interface for bjcp-calendar.
//
// The root command scrapes the BJCP competition calendar, builds the all-day event feed,
// and writes competitions.json and all-us-rolling.ics to the output directory. The rebuild
// subcommand regenerates the feed from an existing competitions.json without touching the
// network.
package cli
