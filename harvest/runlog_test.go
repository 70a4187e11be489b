package harvest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func runLogWith(t *testing.T, content string) *RunLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harvester.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing run log fixture: %v", err)
	}
	return NewRunLog(path)
}

func TestLastSuccessfulStartMissingFile(t *testing.T) {
	l := NewRunLog(filepath.Join(t.TempDir(), "does-not-exist.log"))
	since, err := l.LastSuccessfulStart()
	if err != nil {
		t.Fatalf("LastSuccessfulStart: %v", err)
	}
	if since != "" {
		t.Errorf("got %q, want empty (harvest everything)", since)
	}
}

func TestLastSuccessfulStart(t *testing.T) {
	l := runLogWith(t, `2023-09-06 12:00:00,000 - INFO - Started
2023-09-06 12:05:00,000 - INFO - Success, all records harvested
2023-09-07 08:00:00,000 - INFO - Started
`)
	since, err := l.LastSuccessfulStart()
	if err != nil {
		t.Fatalf("LastSuccessfulStart: %v", err)
	}
	// The later run never reached Success: its start must not narrow
	// the window.
	if want := "2023-09-06T12:00:00Z"; since != want {
		t.Errorf("got %q, want %q", since, want)
	}
}

func TestLastSuccessfulStartPicksLatestSuccess(t *testing.T) {
	l := runLogWith(t, `2023-09-06 12:00:00,000 - INFO - Started
2023-09-06 12:05:00,000 - INFO - Success, all records harvested
2023-09-07 08:00:00,000 - INFO - Started
2023-09-07 08:03:00,000 - INFO - Success, records harvested since 2023-09-06T12:00:00Z
`)
	since, err := l.LastSuccessfulStart()
	if err != nil {
		t.Fatalf("LastSuccessfulStart: %v", err)
	}
	if want := "2023-09-07T08:00:00Z"; since != want {
		t.Errorf("got %q, want %q", since, want)
	}
}

func TestLastSuccessfulStartWithoutSuccess(t *testing.T) {
	l := runLogWith(t, `2023-09-06 12:00:00,000 - INFO - Started
2023-09-07 08:00:00,000 - INFO - Started
`)
	since, err := l.LastSuccessfulStart()
	if err != nil {
		t.Fatalf("LastSuccessfulStart: %v", err)
	}
	if since != "" {
		t.Errorf("got %q, want empty", since)
	}
}

func TestAppendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvester.log")
	l := NewRunLog(path)
	l.now = func() time.Time {
		return time.Date(2023, 9, 6, 12, 0, 0, 0, time.UTC)
	}

	if err := l.Append(startedMarker); err != nil {
		t.Fatalf("Append: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading run log: %v", err)
	}
	if want := "2023-09-06 12:00:00,000 - INFO - Started\n"; string(content) != want {
		t.Errorf("got %q, want %q", content, want)
	}
}

func TestAppendStampsUTC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvester.log")
	l := NewRunLog(path)
	// 15:00 in Helsinki summer time is 12:00 UTC; a local-time stamp
	// would widen or narrow the next run's window by the UTC offset.
	l.now = func() time.Time {
		return time.Date(2023, 9, 6, 15, 0, 0, 0, time.FixedZone("EEST", 3*60*60))
	}

	if err := l.Append(startedMarker); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append("Success, all records harvested"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	since, err := l.LastSuccessfulStart()
	if err != nil {
		t.Fatalf("LastSuccessfulStart: %v", err)
	}
	if want := "2023-09-06T12:00:00Z"; since != want {
		t.Errorf("got %q, want %q", since, want)
	}
}

func TestAppendThenRecover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvester.log")
	l := NewRunLog(path)

	if err := l.Append(startedMarker); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append("Success, all records harvested"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	since, err := l.LastSuccessfulStart()
	if err != nil {
		t.Fatalf("LastSuccessfulStart: %v", err)
	}
	if since == "" {
		t.Error("successful run not recovered from the log")
	}
}
