package urlutil

import "testing"

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		defaultScheme string
		expected      string
		wantErr       bool
	}{
		{
			name:          "bare host gets default scheme",
			input:         "rentry.co",
			defaultScheme: "https",
			expected:      "https://rentry.co",
		},
		{
			name:     "empty default scheme falls back to https",
			input:    "rentry.co",
			expected: "https://rentry.co",
		},
		{
			name:          "trailing slash stripped",
			input:         "https://rentry.co/",
			defaultScheme: "https",
			expected:      "https://rentry.co",
		},
		{
			name:          "host and scheme lowercased",
			input:         "HTTPS://Rentry.CO",
			defaultScheme: "https",
			expected:      "https://rentry.co",
		},
		{
			name:          "port preserved",
			input:         "http://127.0.0.1:8080",
			defaultScheme: "https",
			expected:      "http://127.0.0.1:8080",
		},
		{
			name:          "explicit scheme overrides default",
			input:         "http://paste.example",
			defaultScheme: "https",
			expected:      "http://paste.example",
		},
		{
			name:    "empty string returns error",
			input:   "  ",
			wantErr: true,
		},
		{
			name:    "non-http scheme rejected",
			input:   "ftp://rentry.co",
			wantErr: true,
		},
		{
			name:    "path rejected",
			input:   "https://rentry.co/abc",
			wantErr: true,
		},
		{
			name:    "query rejected",
			input:   "https://rentry.co?x=1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BaseURL(tt.input, tt.defaultScheme)
			if (err != nil) != tt.wantErr {
				t.Errorf("BaseURL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCandidateURL(t *testing.T) {
	if got := CandidateURL("https://rentry.co", "ab12"); got != "https://rentry.co/ab12" {
		t.Errorf("CandidateURL() = %q", got)
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://rentry.co", "rentry.co"},
		{"http://127.0.0.1:8080", "127.0.0.1:8080"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := Host(tt.base); got != tt.want {
			t.Errorf("Host(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestIsHTTPScheme(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		expected bool
	}{
		{"http", "http://example.com", true},
		{"https", "https://example.com", true},
		{"uppercase", "HTTPS://example.com", true},
		{"mailto", "mailto:user@example.com", false},
		{"ftp", "ftp://files.example.com", false},
		{"empty", "", false},
		{"relative", "/path/only", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTTPScheme(tt.rawURL); got != tt.expected {
				t.Errorf("IsHTTPScheme(%q) = %v, want %v", tt.rawURL, got, tt.expected)
			}
		})
	}
}
