package result

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNothingToReport is returned by WriteReportFile when a session found no
// available URLs.
var ErrNothingToReport = errors.New("no available URLs to report")

// ReportFileName returns the timestamped report name for host.
func ReportFileName(host string, now time.Time) string {
	safeHost := strings.NewReplacer(".", "_", ":", "_", "/", "_").Replace(host)
	return fmt.Sprintf("available_%s_urls_%d.txt", safeHost, now.Unix())
}

// WriteReport writes the plain-text report of available URLs to w.
func WriteReport(w io.Writer, host string, s *Session, now time.Time) error {
	bw := bufio.NewWriter(w)
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(bw, format, a...) }

	writef("Available %s URLs\n", host)
	writef("%s\n", strings.Repeat("=", 30))
	writef("Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	writef("Method: random\n")
	writef("Total attempts: %d\n", s.Attempts)
	writef("Success rate: %.1f%%\n\n", s.SuccessRate())

	writef("Available URLs (copy these to create new pastes):\n")
	writef("%s\n", strings.Repeat("-", 50))
	for i, u := range s.Available {
		writef("%2d. %s\n", i+1, u)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteReportFile writes the report into dir and returns the file path.
// It returns ErrNothingToReport without touching the filesystem when the
// session has no available URLs.
func WriteReportFile(dir, host string, s *Session, now time.Time) (path string, err error) {
	if len(s.Available) == 0 {
		return "", ErrNothingToReport
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory %s: %w", dir, err)
	}

	path = filepath.Join(dir, ReportFileName(host, now))
	f, err := os.Create(path) //nolint:gosec // path is built from a user-chosen directory
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
	}()

	if err := WriteReport(f, host, s, now); err != nil {
		return "", err
	}
	return path, nil
}
