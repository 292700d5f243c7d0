// Package result holds the probe data model, session bookkeeping and the
// reporters that turn a finished session into text.
package result

import (
	"math"
	"strconv"
	"time"
)

// Status is the availability classification of a probed token.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusTaken        Status = "taken"
	StatusRequestError Status = "request_error"
)

// PageInfo is the diagnostic content classification of a taken page.
type PageInfo struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	IsErrorPage bool   `json:"is_error_page"`
	HasContent  bool   `json:"has_content"`
}

// ProbeResult represents the outcome of probing a single token.
type ProbeResult struct {
	Token         string        `json:"token"`
	URL           string        `json:"url"`
	Status        Status        `json:"status"`
	StatusCode    int           `json:"status_code"`          // HTTP status code (0 if unreachable)
	Error         string        `json:"error,omitempty"`      // Transport error, if any
	ErrorCategory ErrorCategory `json:"error_type,omitempty"` // Category of Error
	Page          *PageInfo     `json:"page,omitempty"`       // Set only when inspection ran
}

// Available reports whether the token is free for use.
func (r ProbeResult) Available() bool {
	return r.Status == StatusAvailable
}

// Limit is either a finite count or unbounded.
type Limit struct {
	n         int
	unbounded bool
}

// Finite returns a Limit of n.
func Finite(n int) Limit {
	return Limit{n: n}
}

// Unbounded returns a Limit that is never reached.
func Unbounded() Limit {
	return Limit{unbounded: true}
}

// IsUnbounded reports whether l has no upper bound.
func (l Limit) IsUnbounded() bool {
	return l.unbounded
}

// Value returns the finite count and true, or 0 and false when unbounded.
func (l Limit) Value() (int, bool) {
	if l.unbounded {
		return 0, false
	}
	return l.n, true
}

// IsZero reports whether l is the zero Limit, which callers treat as unset.
func (l Limit) IsZero() bool {
	return !l.unbounded && l.n == 0
}

// Reached reports whether v has hit the limit.
func (l Limit) Reached(v int) bool {
	return !l.unbounded && v >= l.n
}

// Scale multiplies a finite limit by factor, saturating at math.MaxInt.
// Unbounded stays unbounded.
func (l Limit) Scale(factor int) Limit {
	if l.unbounded {
		return l
	}
	if factor > 0 && l.n > math.MaxInt/factor {
		return Finite(math.MaxInt)
	}
	return Finite(l.n * factor)
}

func (l Limit) String() string {
	if l.unbounded {
		return "unlimited"
	}
	return strconv.Itoa(l.n)
}

// Session is the state of one exploration run.
type Session struct {
	Target      Limit
	MaxAttempts Limit

	Available  []string      // URLs of available tokens, in discovery order
	Results    []ProbeResult // Every probe outcome, in order
	Attempts   int
	Taken      int // Non-available attempts, errors included
	Errors     int // Attempts that failed at the transport level
	Duplicates int // Candidates that were generated more than once
	Skipped    int // Candidates skipped by robots.txt; not attempts, but they spend MaxAttempts
	Cancelled  bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewSession creates an empty session for the given target and budget.
func NewSession(target, maxAttempts Limit) *Session {
	return &Session{
		Target:      target,
		MaxAttempts: maxAttempts,
	}
}

// Done reports whether either stopping condition holds. Candidates skipped
// by robots.txt consume the attempt budget so a blanket disallow terminates.
func (s *Session) Done() bool {
	return s.Target.Reached(len(s.Available)) || s.MaxAttempts.Reached(s.Attempts+s.Skipped)
}

// Record counts one probe outcome.
func (s *Session) Record(r ProbeResult) {
	s.Attempts++
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusAvailable:
		s.Available = append(s.Available, r.URL)
	case StatusRequestError:
		s.Errors++
		s.Taken++
	default:
		s.Taken++
	}
}

// SuccessRate is the percentage of attempts that found an available token.
func (s *Session) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(len(s.Available)) / float64(s.Attempts) * 100
}

// Duration is the wall time of the session.
func (s *Session) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
