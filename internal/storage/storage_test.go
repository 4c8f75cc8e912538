package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/bjcp-calendar/internal/calendar"
	"github.com/pfrederiksen/bjcp-calendar/internal/competition"
)

func testRecords() []*competition.Record {
	return []*competition.Record{
		competition.NewRecord("Midwest Brew-Off", "Chicago", "2025-03-01", "2025-02-01"),
		competition.NewRecord("Hops & Barley <Open>", "Denver", "TBD", "2025-05-01"),
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "docs")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("output directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
	if got := s.Path(CompetitionsFile); got != filepath.Join(dir, CompetitionsFile) {
		t.Errorf("Path() = %q, want %q", got, filepath.Join(dir, CompetitionsFile))
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/bjcp-out")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	want := filepath.Join(home, "bjcp-out", CalendarFile)
	if got := s.Path(CalendarFile); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestSaveCompetitions(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := s.SaveCompetitions(testRecords()); err != nil {
		t.Fatalf("SaveCompetitions() error: %v", err)
	}

	data, err := os.ReadFile(s.Path(CompetitionsFile))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := string(data)

	want := `[
  {
    "name": "Midwest Brew-Off",
    "judging_date": "2025-03-01",
    "entry_deadline": "2025-02-01",
    "location": "Chicago"
  },
  {
    "name": "Hops & Barley <Open>",
    "judging_date": null,
    "entry_deadline": "2025-05-01",
    "location": "Denver"
  }
]
`
	if out != want {
		t.Errorf("competitions.json mismatch:\n%s", cmp.Diff(want, out))
	}

	if _, err := os.Stat(s.Path(CompetitionsFile) + tmpSuffix); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}
}

func TestSaveCompetitions_Empty(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := s.SaveCompetitions(nil); err != nil {
		t.Fatalf("SaveCompetitions() error: %v", err)
	}

	data, err := os.ReadFile(s.Path(CompetitionsFile))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("empty competitions = %q, want []", got)
	}
}

func TestLoadCompetitions(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	records := testRecords()
	if err := s.SaveCompetitions(records); err != nil {
		t.Fatalf("SaveCompetitions() error: %v", err)
	}

	loaded, err := s.LoadCompetitions()
	if err != nil {
		t.Fatalf("LoadCompetitions() error: %v", err)
	}
	if diff := cmp.Diff(records, loaded); diff != "" {
		t.Errorf("LoadCompetitions() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCompetitions_Errors(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := s.LoadCompetitions(); err == nil {
		t.Error("LoadCompetitions() on missing file should fail")
	}

	if err := os.WriteFile(s.Path(CompetitionsFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := s.LoadCompetitions(); err == nil {
		t.Error("LoadCompetitions() on invalid JSON should fail")
	}
}

func TestSaveCalendar(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	cal := calendar.Build(testRecords())
	if err := s.SaveCalendar(cal, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SaveCalendar() error: %v", err)
	}

	data, err := os.ReadFile(s.Path(CalendarFile))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := string(data)

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("calendar has %d events, want 3", got)
	}
	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Error("calendar should start with BEGIN:VCALENDAR")
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Error("calendar should end with END:VCALENDAR and CRLF")
	}
	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Error("calendar file contains bare \\n line endings")
	}
}

func TestSaveCompetitions_RenameFailureRemovesTemp(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// A non-empty directory at the target path makes the rename fail
	blocker := s.Path(CompetitionsFile)
	if err := os.MkdirAll(filepath.Join(blocker, "keep"), 0755); err != nil {
		t.Fatalf("creating blocker: %v", err)
	}

	if err := s.SaveCompetitions(testRecords()); err == nil {
		t.Fatal("SaveCompetitions() expected error when target is a directory")
	}

	if _, err := os.Stat(blocker + tmpSuffix); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind after failed rename: %v", err)
	}
}
