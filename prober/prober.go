// Package prober checks whether candidate tokens are in use on a paste host.
// It issues a lightweight existence check per token and, on request, fetches
// and classifies the page body for diagnostics.
package prober

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lukemcguire/pasteprobe/result"
	"github.com/lukemcguire/pasteprobe/urlutil"
)

// DefaultUserAgent mimics a desktop browser; some paste hosts answer bots
// differently.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds prober configuration.
type Config struct {
	BaseURL         string        // Service base URL, e.g. https://rentry.co
	UserAgent       string        // User-Agent header sent with every request
	RequestTimeout  time.Duration // Existence check timeout (default 5s)
	InspectTimeout  time.Duration // Content fetch timeout (default 10s)
	MaxBodyBytes    int64         // Cap on bytes read during inspection (default 1 MiB)
	ServiceMarkers  []string      // Substrings that identify a real paste page
	ErrorIndicators []string      // Substrings that identify an error page
}

// DefaultConfig returns a Config for baseURL with the default timeouts and
// content heuristics.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:         baseURL,
		UserAgent:       DefaultUserAgent,
		RequestTimeout:  5 * time.Second,
		InspectTimeout:  10 * time.Second,
		MaxBodyBytes:    1 << 20,
		ServiceMarkers:  DefaultServiceMarkers(),
		ErrorIndicators: DefaultErrorIndicators(),
	}
}

// Prober performs existence checks against one paste host.
type Prober struct {
	cfg    Config
	client *http.Client
}

// New creates a Prober. Zero-valued fields in cfg take their defaults.
// The client parameter is optional; nil uses a fresh http.Client.
func New(cfg Config, client *http.Client) *Prober {
	def := DefaultConfig(cfg.BaseURL)
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.InspectTimeout <= 0 {
		cfg.InspectTimeout = def.InspectTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if len(cfg.ServiceMarkers) == 0 {
		cfg.ServiceMarkers = def.ServiceMarkers
	}
	if len(cfg.ErrorIndicators) == 0 {
		cfg.ErrorIndicators = def.ErrorIndicators
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Prober{cfg: cfg, client: client}
}

// URL returns the full URL probed for token.
func (p *Prober) URL(token string) string {
	return urlutil.CandidateURL(p.cfg.BaseURL, token)
}

// Classify maps an existence check outcome to a status.
// A transport error is never available; 404 is available; anything else is
// taken.
func Classify(statusCode int, err error) result.Status {
	switch {
	case err != nil:
		return result.StatusRequestError
	case statusCode == http.StatusNotFound:
		return result.StatusAvailable
	default:
		return result.StatusTaken
	}
}

// Check issues a HEAD request for token, falling back to GET when the host
// answers 405 Method Not Allowed. Transport errors are recorded on the
// result, never returned.
//
// The request is detached from ctx cancellation: an in-flight check runs to
// completion or its own timeout. ctx values are preserved.
func (p *Prober) Check(ctx context.Context, token string) result.ProbeResult {
	res := result.ProbeResult{
		Token: token,
		URL:   p.URL(token),
	}

	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.RequestTimeout)
	defer cancel()

	statusCode, err := p.head(reqCtx, res.URL)
	if err == nil && statusCode == http.StatusMethodNotAllowed {
		statusCode, err = p.status(reqCtx, http.MethodGet, res.URL)
	}

	res.Status = Classify(statusCode, err)
	if err != nil {
		res.Error = err.Error()
		res.ErrorCategory = result.ClassifyError(err)
		return res
	}
	res.StatusCode = statusCode
	return res
}

func (p *Prober) head(ctx context.Context, rawURL string) (int, error) {
	return p.status(ctx, http.MethodHead, rawURL)
}

// status performs one request and returns its final status code after
// redirects. The body is not read.
func (p *Prober) status(ctx context.Context, method, rawURL string) (statusCode int, err error) {
	req, err := p.newRequest(ctx, method, rawURL)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	if closeErr := resp.Body.Close(); closeErr != nil {
		return resp.StatusCode, fmt.Errorf("close response body: %w", closeErr)
	}
	return resp.StatusCode, nil
}

func (p *Prober) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request for %s: %w", method, rawURL, err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	return req, nil
}
