package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClassifyContent(t *testing.T) {
	markers := DefaultServiceMarkers()
	indicators := DefaultErrorIndicators()

	tests := []struct {
		name        string
		statusCode  int
		body        string
		wantType    string
		wantError   bool
		wantContent bool
		wantTitle   string
	}{
		{
			name:       "404 is available",
			statusCode: 404,
			body:       "<html><head><title>404 Not Found</title></head></html>",
			wantType:   ContentAvailable,
			wantError:  true,
			wantTitle:  "404 Not Found",
		},
		{
			name:        "200 with service marker",
			statusCode:  200,
			body:        "<html><head><title> My Notes </title></head><body>Rentry.co - Markdown Paste Service</body></html>",
			wantType:    ContentTakenWithContent,
			wantContent: true,
			wantTitle:   "My Notes",
		},
		{
			name:       "200 without marker",
			statusCode: 200,
			body:       "<html><body>hello</body></html>",
			wantType:   ContentUnknownContent,
		},
		{
			name:       "500 with error text",
			statusCode: 500,
			body:       "<p>Oops, Something went wrong</p>",
			wantType:   ContentErrorPage,
			wantError:  true,
		},
		{
			name:       "403 without error text",
			statusCode: 403,
			body:       "<p>forbidden</p>",
			wantType:   ContentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyContent(tt.statusCode, []byte(tt.body), markers, indicators)
			if info.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", info.ContentType, tt.wantType)
			}
			if info.IsErrorPage != tt.wantError {
				t.Errorf("IsErrorPage = %v, want %v", info.IsErrorPage, tt.wantError)
			}
			if info.HasContent != tt.wantContent {
				t.Errorf("HasContent = %v, want %v", info.HasContent, tt.wantContent)
			}
			if info.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", info.Title, tt.wantTitle)
			}
			if info.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", info.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple", "<title>hello</title>", "hello"},
		{"entities", "<title>a &amp; b</title>", "a & b"},
		{"first wins", "<title>one</title><title>two</title>", "one"},
		{"missing", "<html><body>no title</body></html>", ""},
		{"unclosed", "<title>dangling", "dangling"},
		{"uppercase tag", "<TITLE>Shout</TITLE>", "Shout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle([]byte(tt.html)); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Inspect should use GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>paste</title></head><body>edit code</body></html>"))
	}))
	defer server.Close()

	p := New(DefaultConfig(server.URL), server.Client())
	info := p.Inspect(context.Background(), server.URL+"/abcd")

	if info.ContentType != ContentTakenWithContent {
		t.Errorf("ContentType = %q, want %q", info.ContentType, ContentTakenWithContent)
	}
	if info.Title != "paste" {
		t.Errorf("Title = %q, want %q", info.Title, "paste")
	}
}

func TestInspect_BodyIsCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The marker sits beyond the read cap and must not be seen.
		_, _ = w.Write([]byte(strings.Repeat("x", 64) + "rentry"))
	}))
	defer server.Close()

	cfg := DefaultConfig(server.URL)
	cfg.MaxBodyBytes = 32
	info := New(cfg, server.Client()).Inspect(context.Background(), server.URL+"/abcd")

	if info.ContentType != ContentUnknownContent {
		t.Errorf("ContentType = %q, want %q", info.ContentType, ContentUnknownContent)
	}
}

func TestInspect_RequestError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	cfg := DefaultConfig(baseURL)
	cfg.InspectTimeout = time.Second
	info := New(cfg, nil).Inspect(context.Background(), baseURL+"/abcd")

	if info.ContentType != ContentRequestError {
		t.Errorf("ContentType = %q, want %q", info.ContentType, ContentRequestError)
	}
	if !info.IsErrorPage {
		t.Error("request error should be flagged as error page")
	}
	if !strings.HasPrefix(info.Title, "Error: ") {
		t.Errorf("Title = %q, want Error: prefix", info.Title)
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	p := New(Config{BaseURL: "https://rentry.co"}, nil)
	if p.cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", p.cfg.RequestTimeout)
	}
	if p.cfg.InspectTimeout != 10*time.Second {
		t.Errorf("InspectTimeout = %v, want 10s", p.cfg.InspectTimeout)
	}
	if p.cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", p.cfg.UserAgent)
	}
	if len(p.cfg.ServiceMarkers) == 0 || len(p.cfg.ErrorIndicators) == 0 {
		t.Error("content heuristics should default when empty")
	}
}
