package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/pasteprobe/result"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	successStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	urlStyle       = lipgloss.NewStyle()
)

// categoryOrder defines the display order for request error categories.
var categoryOrder = []result.ErrorCategory{
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryTLS,
	result.CategoryUnknown,
}

// RenderSummary produces a Lip Gloss styled summary of a session.
func RenderSummary(s *result.Session) string {
	if s == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if s.Cancelled {
		builder.WriteString(categoryStyle.Render(fmt.Sprintf("Stopped by user after %d attempts", s.Attempts)))
		builder.WriteString("\n")
	}

	if len(s.Available) == 0 {
		builder.WriteString(errorStyle.Render("No available URLs found. Try again or run longer."))
		builder.WriteString("\n")
	} else {
		builder.WriteString(successStyle.Render(fmt.Sprintf("Found %d available URLs", len(s.Available))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(s.Available))
		for i, u := range s.Available {
			rows = append(rows, []string{strconv.Itoa(i + 1), u})
		}
		urlTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("#", "URL").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return availableStyle
				}
				return urlStyle
			}).
			Rows(rows...)
		builder.WriteString(urlTable.Render())
		builder.WriteString("\n")
	}

	if s.Errors > 0 {
		counts := make(map[result.ErrorCategory]int)
		for _, r := range s.Results {
			if r.Status != result.StatusRequestError {
				continue
			}
			cat := r.ErrorCategory
			if cat == "" {
				cat = result.CategoryUnknown
			}
			counts[cat]++
		}
		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## Request errors (%d, counted as taken)", s.Errors)))
		builder.WriteString("\n")
		for _, cat := range categoryOrder {
			if n := counts[cat]; n > 0 {
				builder.WriteString(fmt.Sprintf("  %s: %d\n", result.FormatCategory(cat), n))
			}
		}
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"%d available | %d taken | %d attempts | %.1f%% success (%s)",
		len(s.Available),
		s.Taken,
		s.Attempts,
		s.SuccessRate(),
		s.Duration().Round(1_000_000), // round to ms
	)))
	builder.WriteString("\n")

	if s.Duplicates > 0 || s.Skipped > 0 {
		builder.WriteString(dimStyle.Render(fmt.Sprintf("%d duplicate candidates, %d skipped by robots.txt", s.Duplicates, s.Skipped)))
		builder.WriteString("\n")
	}

	return builder.String()
}
