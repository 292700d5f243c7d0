package result

import (
	"fmt"
	"io"
	"strings"
)

// PrintSummary writes session counts and the available URLs to w.
func PrintSummary(w io.Writer, s *Session) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("%s\n", strings.Repeat("=", 60))
	if s.Cancelled {
		writef("Stopped by user after %d attempts\n", s.Attempts)
	}
	writef("Results: %d available | %d taken | %d total attempts\n",
		len(s.Available), s.Taken, s.Attempts)
	if s.Errors > 0 {
		writef("Request errors: %d (counted as taken)\n", s.Errors)
	}
	if s.Duplicates > 0 {
		writef("Duplicate candidates: %d\n", s.Duplicates)
	}
	if s.Skipped > 0 {
		writef("Skipped by robots.txt: %d\n", s.Skipped)
	}
	writef("Success rate: %.1f%%\n", s.SuccessRate())

	if len(s.Available) == 0 {
		writef("\nNo available URLs found. Try again or run longer.\n")
		return
	}

	writef("\nAvailable URLs (ready to use for creating pastes):\n")
	for i, u := range s.Available {
		writef("  %2d. %s\n", i+1, u)
	}
}

// PrintAttempt writes a single status line for a probe outcome.
func PrintAttempt(w io.Writer, attempt int, r ProbeResult) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("Attempt %2d: Testing %s... ", attempt, r.URL)
	switch r.Status {
	case StatusAvailable:
		writef("Available (404)\n")
	case StatusRequestError:
		writef("Taken - request failed: %s\n", r.Error)
	default:
		writef("Taken (%d)", r.StatusCode)
		if r.Page != nil {
			writef(" [%s]", r.Page.ContentType)
			if r.Page.Title != "" {
				writef(" %q", r.Page.Title)
			}
		}
		writef("\n")
	}
}
