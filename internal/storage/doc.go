// Package storage writes and reads the published output files.
//
// Two files are kept in the output directory (docs/ by default): competitions.json, the
// pretty-printed list of scraped records, and all-us-rolling.ics, the calendar feed.
// Files are written to a temporary sibling first and renamed into place.
package storage
