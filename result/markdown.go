package result

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// WriteMarkdown writes a Markdown summary of the session followed by a table
// of every probe result.
func WriteMarkdown(w io.Writer, host string, s *Session, now time.Time) error {
	md := markdown.NewMarkdown(w)

	md.H1(fmt.Sprintf("Available %s URLs", host))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", now.Format("2006-01-02 15:04:05")},
			{"Method", "random"},
			{"Total attempts", strconv.Itoa(s.Attempts)},
			{"Available", strconv.Itoa(len(s.Available))},
			{"Taken", strconv.Itoa(s.Taken)},
			{"Success rate", fmt.Sprintf("%.1f%%", s.SuccessRate())},
		},
	})
	md.PlainText("")

	md.H2("Available URLs")
	md.PlainText("")
	if len(s.Available) == 0 {
		md.PlainText("No available URLs found.")
	} else {
		md.OrderedList(s.Available...)
	}
	md.PlainText("")

	if len(s.Results) > 0 {
		md.H2("Attempts")
		md.PlainText("")
		rows := make([][]string, 0, len(s.Results))
		for _, r := range s.Results {
			detail := r.Error
			if r.Page != nil {
				detail = r.Page.ContentType
			}
			rows = append(rows, []string{r.Token, string(r.Status), statusCodeStr(r.StatusCode), detail})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Token", "Status", "Code", "Detail"},
			Rows:   rows,
		})
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("write markdown output: %w", err)
	}
	return nil
}
