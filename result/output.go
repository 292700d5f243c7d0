package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes the probe results as a formatted JSON array to the writer.
func WriteJSON(w io.Writer, results []ProbeResult) error {
	if results == nil {
		results = []ProbeResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the probe results as CSV to the writer.
// Always includes a header row, even if there are no results.
// Column order: token, url, status, status_code, error_type, content_type, title
func WriteCSV(w io.Writer, results []ProbeResult) error {
	cw := csv.NewWriter(w)

	header := []string{"token", "url", "status", "status_code", "error_type", "content_type", "title"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range results {
		var contentType, title string
		if r.Page != nil {
			contentType = r.Page.ContentType
			title = r.Page.Title
		}
		record := []string{
			r.Token,
			r.URL,
			string(r.Status),
			statusCodeStr(r.StatusCode),
			string(r.ErrorCategory),
			contentType,
			title,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", r.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
