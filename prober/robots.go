package prober

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsEntry stores parsed robots.txt data with fetch timestamp.
// Nil data means allow-all.
type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// RobotsChecker fetches and caches robots.txt rules per host.
// It is not safe for concurrent use.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	cache     map[string]robotsEntry
	cacheTTL  time.Duration
	now       func() time.Time
}

// NewRobotsChecker creates a RobotsChecker that evaluates rules for userAgent.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]robotsEntry),
		cacheTTL:  time.Hour,
		now:       time.Now,
	}
}

// Allowed reports whether rawURL may be requested.
// Fetch and parse failures allow the request and are returned for logging.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	host := parsedURL.Host
	if host == "" {
		return true, nil
	}

	entry, ok := r.cache[host]
	if !ok || r.now().Sub(entry.fetchedAt) >= r.cacheTTL {
		entry, err = r.fetch(ctx, parsedURL.Scheme, host)
		r.cache[host] = entry
		if err != nil {
			return true, err
		}
	}

	if entry.data == nil {
		return true, nil
	}
	return entry.data.TestAgent(parsedURL.Path, r.userAgent), nil
}

// fetch downloads robots.txt for host. The returned entry is always
// cacheable; on error it allows all.
func (r *RobotsChecker) fetch(ctx context.Context, scheme, host string) (robotsEntry, error) {
	entry := robotsEntry{fetchedAt: r.now()}
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return entry, fmt.Errorf("create robots.txt request for host %s: %w", host, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return entry, fmt.Errorf("fetch robots.txt for host %s: %w", host, err)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	closeErr := resp.Body.Close()
	if readErr != nil {
		return entry, fmt.Errorf("read robots.txt body for host %s: %w", host, readErr)
	}
	if closeErr != nil {
		return entry, fmt.Errorf("close robots.txt response body for host %s: %w", host, closeErr)
	}

	// 404 means no rules; 5xx fails open.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return entry, nil
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return entry, fmt.Errorf("parse robots.txt for host %s: %w", host, err)
	}
	entry.data = robots
	return entry, nil
}

// ClearCache removes all cached robots.txt entries.
func (r *RobotsChecker) ClearCache() {
	clear(r.cache)
}
