// Package urlutil builds and normalises the URLs probed against a paste host.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// BaseURL takes a host such as "rentry.co", "Rentry.co/" or
// "http://127.0.0.1:8080" and returns the normalised service base URL
// without a trailing slash.
// A bare host gets defaultScheme. Schemes are limited to http and https and
// the host must not carry a path, query or fragment.
func BaseURL(rawHost, defaultScheme string) (string, error) {
	rawHost = strings.TrimSpace(rawHost)
	if rawHost == "" {
		return "", errors.New("cannot build base URL from empty host")
	}

	if !strings.Contains(rawHost, "://") {
		if defaultScheme == "" {
			defaultScheme = "https"
		}
		rawHost = defaultScheme + "://" + rawHost
	}

	parsed, err := url.Parse(rawHost)
	if err != nil {
		return "", fmt.Errorf("parse host %q: %w", rawHost, err)
	}
	if !IsHTTPScheme(parsed.String()) {
		return "", fmt.Errorf("unsupported scheme %q: must be http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("host missing in %q", rawHost)
	}
	if strings.Trim(parsed.Path, "/") != "" || parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", fmt.Errorf("host %q must not include a path, query or fragment", rawHost)
	}

	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), nil
}

// CandidateURL joins a base URL from BaseURL and a token.
func CandidateURL(base, token string) string {
	return base + "/" + url.PathEscape(token)
}

// Host returns the host[:port] part of a base URL, or the input unchanged if
// it cannot be parsed.
func Host(base string) string {
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return base
	}
	return parsed.Host
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
