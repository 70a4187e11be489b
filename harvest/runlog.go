package harvest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Run log line markers. The next run recovers its incremental window by
// finding the start time of the last run that reached Success.
const (
	startedMarker = "Started"
	successMarker = "Success"
)

const (
	runLogTimeLayout  = "2006-01-02 15:04:05"
	harvestTimeLayout = "2006-01-02T15:04:05Z"
)

// RunLog is the harvest run bookkeeping file. Each run appends a
// Started line and, on completion, a Success line; the timestamps of
// those lines define the incremental harvesting windows. Lines are
// stamped in UTC because the recovered start time is sent verbatim as
// an OAI-PMH from argument.
type RunLog struct {
	path string
	now  func() time.Time
}

// NewRunLog creates a run log backed by the given file. The file is
// created on first append.
func NewRunLog(path string) *RunLog {
	return &RunLog{path: path, now: time.Now}
}

// Append writes one timestamped log line.
func (l *RunLog) Append(message string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening harvest run log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s - INFO - %s\n", l.now().UTC().Format(runLogTimeLayout+",000"), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing harvest run log: %w", err)
	}
	return nil
}

// LastSuccessfulStart returns the start time of the most recent run
// that completed successfully, as an OAI-PMH "from" timestamp. An
// absent log file or a log without any successful run yields an empty
// string: everything must be harvested.
func (l *RunLog) LastSuccessfulStart() (string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("opening harvest run log: %w", err)
	}
	defer f.Close()

	var pendingStart, lastSuccessfulStart string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, startedMarker):
			pendingStart = line
		case strings.Contains(line, successMarker) && pendingStart != "":
			lastSuccessfulStart = pendingStart
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading harvest run log: %w", err)
	}

	if len(lastSuccessfulStart) < len(runLogTimeLayout) {
		return "", nil
	}

	t, err := time.Parse(runLogTimeLayout, lastSuccessfulStart[:len(runLogTimeLayout)])
	if err != nil {
		return "", fmt.Errorf("unparseable run log line %q: %w", lastSuccessfulStart, err)
	}
	return t.Format(harvestTimeLayout), nil
}
