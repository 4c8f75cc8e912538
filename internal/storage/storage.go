package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/bjcp-calendar/internal/calendar"
	"github.com/pfrederiksen/bjcp-calendar/internal/competition"
)

const (
	CompetitionsFile = "competitions.json"
	CalendarFile     = "all-us-rolling.ics"
	DefaultDir       = "docs"

	filePermissions = 0644
	tmpSuffix       = ".tmp"
)

// Storage handles the output directory
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the path of a file inside the output directory
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// SaveCompetitions writes the records to competitions.json, indented by two spaces.
// An empty list is written as [] rather than null.
func (s *Storage) SaveCompetitions(records []*competition.Record) error {
	if records == nil {
		records = []*competition.Record{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encoding competitions: %w", err)
	}

	if err := s.writeFile(CompetitionsFile, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return fmt.Errorf("writing competitions: %w", err)
	}

	return nil
}

// LoadCompetitions reads competitions.json back into records
func (s *Storage) LoadCompetitions() ([]*competition.Record, error) {
	data, err := os.ReadFile(s.Path(CompetitionsFile))
	if err != nil {
		return nil, fmt.Errorf("reading competitions: %w", err)
	}

	var records []*competition.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing competitions: %w", err)
	}

	return records, nil
}

// SaveCalendar writes the calendar to all-us-rolling.ics
func (s *Storage) SaveCalendar(cal *calendar.Calendar, stamp time.Time) error {
	if err := s.writeFile(CalendarFile, func(w io.Writer) error {
		return cal.Encode(w, stamp)
	}); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// writeFile writes name through a temporary file so readers never see a partial file
func (s *Storage) writeFile(name string, write func(io.Writer) error) error {
	path := s.Path(name)
	tmpPath := path + tmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
