package metax

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// OpenRequestLog opens (or creates) the Metax API request log file and
// returns a logger writing to it. The caller closes the returned file
// when the run is over.
func OpenRequestLog(path string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening Metax API request log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, f, nil
}
