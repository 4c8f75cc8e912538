package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult summarizes a completed run
type OutputResult struct {
	GeneratedAt      time.Time `json:"generated_at"`
	CompetitionCount int       `json:"competition_count"`
	EventCount       int       `json:"event_count"`
	Files            []string  `json:"files"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText prints the completion message, with counts and file paths when verbose
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "Competitions: %d\n", result.CompetitionCount)
		fmt.Fprintf(w, "Calendar events: %d\n", result.EventCount)
		for _, f := range result.Files {
			fmt.Fprintf(w, "Wrote %s\n", f)
		}
	}

	_, err := fmt.Fprintln(w, "Done.")
	return err
}
