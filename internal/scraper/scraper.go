package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/bjcp-calendar/internal/competition"
	"github.com/pfrederiksen/bjcp-calendar/internal/logger"
)

const (
	CalendarURL = "https://app.bjcp.org/competition-calendar"
	UserAgent   = "bjcp-calendar/1.0 (github.com/pfrederiksen/bjcp-calendar)"
	Timeout     = 30 * time.Second
	MaxPages    = 50

	// MinCells is the number of cells a row needs to be read as a competition
	MinCells = 6
)

// Column positions of the calendar table
const (
	colJudgingDate   = 1
	colLocation      = 2
	colName          = 3
	colEntryDeadline = 5
)

// StatusError is returned when the calendar answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Scraper handles fetching and parsing the BJCP competition calendar
type Scraper struct {
	client   *http.Client
	url      string
	maxPages int
}

// Option configures a Scraper
type Option func(*Scraper)

// WithBaseURL overrides the calendar URL
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.url = baseURL
	}
}

// WithMaxPages overrides the page ceiling
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		s.maxPages = n
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.client = client
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:      CalendarURL,
		maxPages: MaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchCompetitions fetches every calendar page in order and returns the parsed records
// in page and row order. The first failed request aborts the fetch.
func (s *Scraper) FetchCompetitions(ctx context.Context) ([]*competition.Record, error) {
	records := make([]*competition.Record, 0)

	for page := 1; page <= s.maxPages; page++ {
		pageRecords, more, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		records = append(records, pageRecords...)

		if !more {
			logger.Debug("Calendar exhausted", logger.Fields{"page": page})
			break
		}
		if page == s.maxPages {
			logger.Warn("Page ceiling reached, later pages not fetched", logger.Fields{"max_pages": s.maxPages})
		}
	}

	logger.Debug("Fetched competitions", logger.Fields{"count": len(records)})
	return records, nil
}

// fetchPage fetches and parses one calendar page. more is false once the page
// shows that no further pages hold data.
func (s *Scraper) fetchPage(ctx context.Context, page int) (records []*competition.Record, more bool, err error) {
	pageURL, err := PageURL(s.url, page)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	logger.Debug("Fetching page", logger.Fields{"page": page, "url": pageURL})
	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	logger.RecordTiming("scraper.page_fetch", time.Since(start))
	logger.IncrCounter("scraper.pages_fetched")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	return parsePage(resp.Body)
}

// PageURL returns the calendar URL for a page, sorted by date
func PageURL(baseURL string, page int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	q := u.Query()
	q.Set("order_by", "date")
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// parsePage extracts records from the first table of an HTML page
func parsePage(r io.Reader) ([]*competition.Record, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, false, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, false, nil
	}

	rows := table.Find("tr")
	if rows.Length() <= 1 {
		return nil, false, nil
	}

	records := make([]*competition.Record, 0, rows.Length()-1)

	// First row is the header
	rows.Slice(1, goquery.ToEnd).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < MinCells {
			logger.IncrCounter("scraper.rows_skipped")
			return
		}

		records = append(records, parseRow(cells))
	})

	return records, true, nil
}

// parseRow reads a record from the cells of one data row. Blank date cells are
// expected; only text that failed to parse is counted.
func parseRow(cells *goquery.Selection) *competition.Record {
	text := func(col int) string {
		return cellText(cells.Eq(col))
	}

	judgingText := text(colJudgingDate)
	deadlineText := text(colEntryDeadline)
	rec := competition.NewRecord(text(colName), text(colLocation), judgingText, deadlineText)

	if judgingText != "" && rec.JudgingDate == nil {
		logger.IncrCounter("scraper.dates_unparsed")
	}
	if deadlineText != "" && rec.EntryDeadline == nil {
		logger.IncrCounter("scraper.dates_unparsed")
	}

	return rec
}

// cellText returns the text of a cell with whitespace collapsed
func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}
