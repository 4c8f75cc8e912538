package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/bjcp-calendar/internal/calendar"
	"github.com/pfrederiksen/bjcp-calendar/internal/logger"
	"github.com/pfrederiksen/bjcp-calendar/internal/scraper"
	"github.com/pfrederiksen/bjcp-calendar/internal/storage"
	"github.com/spf13/cobra"
)

// ExitError is the process exit code for any failed run
const ExitError = 1

// options holds the flag values of one command invocation
type options struct {
	outDir   string
	baseURL  string
	maxPages int
	timeout  time.Duration
	format   string
	logLevel string
	verbose  bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bjcp-calendar",
		Short: "Publish the BJCP competition calendar as JSON and ICS",
		Long: `Scrapes the public BJCP competition calendar and writes two files:
competitions.json with every listed competition, and all-us-rolling.ics with
one all-day event per entry deadline and judging date.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.outDir, "out-dir", storage.DefaultDir, "Directory for competitions.json and all-us-rolling.ics")
	flags.StringVar(&opts.format, "format", string(FormatText), "Summary format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", string(logger.LevelWarn), "Minimum log level: debug, info, warn or error")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	cmd.Flags().StringVar(&opts.baseURL, "base-url", scraper.CalendarURL, "Competition calendar URL")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", scraper.MaxPages, "Maximum number of calendar pages to fetch")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", scraper.Timeout, "Per-request HTTP timeout")

	cmd.AddCommand(newRebuildCmd(opts))

	return cmd
}

// newRebuildCmd creates the rebuild subcommand
func newRebuildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate all-us-rolling.ics from an existing competitions.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(cmd, opts)
		},
	}
}

// setup validates shared flags and configures the default logger
func (o *options) setup(logOutput io.Writer) error {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	o.format = string(format)

	if o.maxPages < 1 {
		return fmt.Errorf("invalid --max-pages: %d (must be at least 1)", o.maxPages)
	}

	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, logOutput))
	logger.DefaultMetrics().Reset()

	return nil
}

// runFetch is the main command logic: scrape, build, write
func runFetch(cmd *cobra.Command, opts *options) error {
	store, err := storage.New(opts.outDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	sc := scraper.New(
		scraper.WithBaseURL(opts.baseURL),
		scraper.WithMaxPages(opts.maxPages),
		scraper.WithTimeout(opts.timeout),
	)

	logger.Info("Fetching competitions", logger.Fields{
		"url":       opts.baseURL,
		"max_pages": opts.maxPages,
	})

	records, err := sc.FetchCompetitions(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching competitions: %w", err)
	}

	if err := store.SaveCompetitions(records); err != nil {
		return fmt.Errorf("saving competitions: %w", err)
	}

	cal := calendar.Build(records)
	logger.AddCounter("calendar.events_built", int64(len(cal.Events)))
	generatedAt := time.Now().UTC()

	if err := store.SaveCalendar(cal, generatedAt); err != nil {
		return fmt.Errorf("saving calendar: %w", err)
	}

	logger.Info("Run complete", logger.Fields{"metrics": logger.GetMetricsSnapshot()})

	return WriteOutput(cmd.OutOrStdout(), &OutputResult{
		GeneratedAt:      generatedAt,
		CompetitionCount: len(records),
		EventCount:       len(cal.Events),
		Files: []string{
			store.Path(storage.CompetitionsFile),
			store.Path(storage.CalendarFile),
		},
	}, OutputFormat(opts.format), opts.verbose)
}

// runRebuild regenerates the calendar from the saved competitions
func runRebuild(cmd *cobra.Command, opts *options) error {
	store, err := storage.New(opts.outDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	records, err := store.LoadCompetitions()
	if err != nil {
		return fmt.Errorf("loading competitions: %w", err)
	}

	cal := calendar.Build(records)
	generatedAt := time.Now().UTC()

	if err := store.SaveCalendar(cal, generatedAt); err != nil {
		return fmt.Errorf("saving calendar: %w", err)
	}

	return WriteOutput(cmd.OutOrStdout(), &OutputResult{
		GeneratedAt:      generatedAt,
		CompetitionCount: len(records),
		EventCount:       len(cal.Events),
		Files:            []string{store.Path(storage.CalendarFile)},
	}, OutputFormat(opts.format), opts.verbose)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
