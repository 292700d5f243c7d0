package prober

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/lukemcguire/pasteprobe/result"
)

// Content types assigned by ClassifyContent.
const (
	ContentAvailable        = "available"
	ContentTakenWithContent = "taken_with_content"
	ContentUnknownContent   = "unknown_content"
	ContentErrorPage        = "error_page"
	ContentUnknown          = "unknown"
	ContentRequestError     = "request_error"
)

// DefaultServiceMarkers identify a page served by the paste service itself.
func DefaultServiceMarkers() []string {
	return []string{
		"rentry",
		"markdown paste service",
		"edit code",
		"custom url",
		"paste",
		"markdown",
	}
}

// DefaultErrorIndicators identify generic error pages.
func DefaultErrorIndicators() []string {
	return []string{
		"error",
		"404 not found",
		"page not found",
		"not found",
		"oops",
		"something went wrong",
	}
}

// Inspect fetches rawURL with a GET and classifies its content. The result is
// diagnostic only and does not decide availability.
// Like Check, the request is detached from ctx cancellation.
func (p *Prober) Inspect(ctx context.Context, rawURL string) result.PageInfo {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.InspectTimeout)
	defer cancel()

	body, statusCode, err := p.fetch(reqCtx, rawURL)
	if err != nil {
		return result.PageInfo{
			ContentType: ContentRequestError,
			Title:       "Error: " + err.Error(),
			IsErrorPage: true,
		}
	}
	return ClassifyContent(statusCode, body, p.cfg.ServiceMarkers, p.cfg.ErrorIndicators)
}

func (p *Prober) fetch(ctx context.Context, rawURL string) (body []byte, statusCode int, err error) {
	req, err := p.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close response body: %w", closeErr)
		}
	}()

	body, err = io.ReadAll(io.LimitReader(resp.Body, p.cfg.MaxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	return body, resp.StatusCode, nil
}

// ClassifyContent applies the ordered content checks to a fetched page.
// Matching is case-insensitive; markers and indicators must be lower case.
func ClassifyContent(statusCode int, body []byte, markers, indicators []string) result.PageInfo {
	content := strings.ToLower(string(body))
	info := result.PageInfo{
		StatusCode:  statusCode,
		ContentType: ContentUnknown,
		Title:       ExtractTitle(body),
		IsErrorPage: containsAny(content, indicators),
	}

	switch {
	case statusCode == http.StatusNotFound:
		info.ContentType = ContentAvailable
	case statusCode == http.StatusOK && containsAny(content, markers):
		info.ContentType = ContentTakenWithContent
		info.HasContent = true
	case statusCode == http.StatusOK:
		info.ContentType = ContentUnknownContent
	case info.IsErrorPage:
		info.ContentType = ContentErrorPage
	}
	return info
}

// ExtractTitle returns the trimmed text of the first <title> element, or ""
// if there is none.
func ExtractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	var title strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// End of document or error
			return strings.TrimSpace(title.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				title.Write(tokenizer.Text())
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if inTitle && string(name) == "title" {
				return strings.TrimSpace(title.String())
			}
		}
	}
}

func containsAny(content string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(content, needle) {
			return true
		}
	}
	return false
}
