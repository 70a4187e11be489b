package record

import (
	"fmt"
	"time"
)

// Timestamp layout Metax expects: UTC with second precision.
const timestampLayout = "2006-01-02T15:04:05Z"

// NormalizeTimestamp parses a source date field and returns it in the
// full timestamp form Metax expects. Source fields are either bare
// dates (2017-02-15) or full timestamps (2017-02-15T10:30:00Z); bare
// dates get a midnight time part.
func NormalizeTimestamp(value string) (string, error) {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
	}
	if err != nil {
		return "", fmt.Errorf("unparseable date %q", value)
	}
	return t.UTC().Format(timestampLayout), nil
}
