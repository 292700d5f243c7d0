// Package explore runs the sequential probing loop: generate a candidate
// token, check it, optionally inspect or open it, record the outcome and pause
// before the next attempt.
package explore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/lukemcguire/pasteprobe/result"
)

// maxConsecutiveSkips bounds an unbounded session whose every candidate is
// disallowed by robots.txt.
const maxConsecutiveSkips = 100

// ErrAllDisallowed is returned when robots.txt rejects maxConsecutiveSkips
// candidates in a row during a session without an attempt budget.
var ErrAllDisallowed = errors.New("every candidate is disallowed by robots.txt")

// Checker performs the existence check for one token.
type Checker interface {
	URL(token string) string
	Check(ctx context.Context, token string) result.ProbeResult
}

// Inspector fetches and classifies the page behind a taken URL.
type Inspector interface {
	Inspect(ctx context.Context, rawURL string) result.PageInfo
}

// Generator produces candidate tokens.
type Generator interface {
	Generate() (string, error)
}

// Opener shows a URL to the user.
type Opener interface {
	Open(rawURL string) error
}

// RobotsGate reports whether a URL may be probed.
type RobotsGate interface {
	Allowed(ctx context.Context, rawURL string) (bool, error)
}

// Config holds exploration limits and pacing.
type Config struct {
	Target      result.Limit  // Available URLs to collect
	MaxAttempts result.Limit  // Attempt budget; zero means Target×10
	Delay       time.Duration // Pause after every attempt
	OpenDelay   time.Duration // Extra pause after the viewer opened a URL
	RateLimit   float64       // Requests per second ceiling; 0 is unlimited
}

// DefaultConfig returns a Config for target with the default pacing.
func DefaultConfig(target result.Limit) Config {
	return Config{
		Target:    target,
		Delay:     300 * time.Millisecond,
		OpenDelay: 1500 * time.Millisecond,
	}
}

// Explorer owns one session and drives it to completion.
type Explorer struct {
	cfg       Config
	gen       Generator
	checker   Checker
	inspector Inspector
	opener    Opener
	robots    RobotsGate
	limiter   *rate.Limiter
	seen      *SeenTracker
	progress  chan<- Event
	printer   io.Writer
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithInspector enables content inspection of taken URLs.
func WithInspector(in Inspector) Option {
	return func(e *Explorer) { e.inspector = in }
}

// WithOpener opens every non-available URL with o.
func WithOpener(o Opener) Option {
	return func(e *Explorer) { e.opener = o }
}

// WithRobots skips candidates that r disallows.
func WithRobots(r RobotsGate) Option {
	return func(e *Explorer) { e.robots = r }
}

// WithProgress sends an Event per candidate on ch. Run closes ch on return.
func WithProgress(ch chan<- Event) Option {
	return func(e *Explorer) { e.progress = ch }
}

// WithPrinter writes one status line per attempt to w.
func WithPrinter(w io.Writer) Option {
	return func(e *Explorer) { e.printer = w }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Explorer) { e.logger = l }
}

// New creates an Explorer that draws from gen and checks with checker.
func New(cfg Config, gen Generator, checker Checker, opts ...Option) *Explorer {
	if cfg.MaxAttempts.IsZero() {
		cfg.MaxAttempts = cfg.Target.Scale(10)
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.OpenDelay < 0 {
		cfg.OpenDelay = 0
	}

	e := &Explorer{
		cfg:     cfg,
		gen:     gen,
		checker: checker,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	e.limiter = rate.NewLimiter(limit, 1)

	expected := uint(0)
	if n, ok := cfg.MaxAttempts.Value(); ok && n > 0 && n < math.MaxInt32 {
		expected = uint(n)
	}
	e.seen = NewSeenTracker(expected)
	return e
}

// Config returns the effective configuration, defaults applied.
func (e *Explorer) Config() Config {
	return e.cfg
}

// Run probes candidates until the target is collected, the attempt budget is
// spent or ctx is cancelled. Cancellation is not an error: the partial session
// is returned with Cancelled set. An error is returned only when no further
// candidate can be produced; the session up to that point is still returned.
func (e *Explorer) Run(ctx context.Context) (*result.Session, error) {
	s := result.NewSession(e.cfg.Target, e.cfg.MaxAttempts)
	s.StartedAt = e.now()
	defer func() { s.FinishedAt = e.now() }()
	if e.progress != nil {
		defer close(e.progress)
	}

	e.logger.Debug("exploration started",
		"target", e.cfg.Target.String(),
		"max_attempts", e.cfg.MaxAttempts.String())

	skipsInRow := 0
	for !s.Done() {
		if ctx.Err() != nil {
			s.Cancelled = true
			break
		}

		token, err := e.gen.Generate()
		if err != nil {
			return s, fmt.Errorf("generate candidate: %w", err)
		}
		duplicate := e.seen.Observe(token)
		if duplicate {
			s.Duplicates++
			e.logger.Debug("duplicate candidate", "token", token)
		}

		if !e.allowed(ctx, token) {
			s.Skipped++
			skipsInRow++
			e.emit(ctx, Event{
				Attempt:   s.Attempts,
				Result:    result.ProbeResult{Token: token, URL: e.checker.URL(token)},
				Available: len(s.Available),
				Taken:     s.Taken,
				Skipped:   true,
				Duplicate: duplicate,
			})
			if s.MaxAttempts.IsUnbounded() && skipsInRow >= maxConsecutiveSkips {
				return s, ErrAllDisallowed
			}
			continue
		}
		skipsInRow = 0

		if err := e.limiter.Wait(ctx); err != nil {
			s.Cancelled = true
			break
		}
		res := e.checker.Check(ctx, token)
		if res.Status == result.StatusTaken && e.inspector != nil {
			if err := e.limiter.Wait(ctx); err == nil {
				page := e.inspector.Inspect(ctx, res.URL)
				res.Page = &page
			}
		}
		s.Record(res)
		e.log(s.Attempts, res)
		if e.printer != nil {
			result.PrintAttempt(e.printer, s.Attempts, res)
		}

		evt := Event{
			Attempt:   s.Attempts,
			Result:    res,
			Available: len(s.Available),
			Taken:     s.Taken,
			Duplicate: duplicate,
		}
		pause := e.cfg.Delay
		if !res.Available() && e.opener != nil {
			if err := e.opener.Open(res.URL); err != nil {
				evt.OpenError = err.Error()
				e.logger.Warn("could not open viewer", "url", res.URL, "error", err)
			} else {
				evt.Opened = true
				pause += e.cfg.OpenDelay
			}
		}

		e.emit(ctx, evt)

		if s.Done() {
			break
		}
		if !sleep(ctx, pause) {
			s.Cancelled = true
			break
		}
	}

	e.logger.Debug("exploration finished",
		"attempts", s.Attempts,
		"available", len(s.Available),
		"cancelled", s.Cancelled)
	return s, nil
}

// allowed consults the robots gate. Errors fail open.
func (e *Explorer) allowed(ctx context.Context, token string) bool {
	if e.robots == nil {
		return true
	}
	rawURL := e.checker.URL(token)
	ok, err := e.robots.Allowed(ctx, rawURL)
	if err != nil {
		e.logger.Warn("robots.txt check failed, allowing", "url", rawURL, "error", err)
		return true
	}
	if !ok {
		e.logger.Info("skipped by robots.txt", "url", rawURL)
	}
	return ok
}

func (e *Explorer) log(attempt int, res result.ProbeResult) {
	attrs := []any{"attempt", attempt, "url", res.URL, "status", string(res.Status)}
	if res.Status == result.StatusRequestError {
		e.logger.Warn("request failed", append(attrs, "error", res.Error, "category", string(res.ErrorCategory))...)
		return
	}
	e.logger.Debug("probed", append(attrs, "code", res.StatusCode)...)
}

// emit sends evt unless ctx is cancelled first.
func (e *Explorer) emit(ctx context.Context, evt Event) {
	if e.progress == nil {
		return
	}
	select {
	case e.progress <- evt:
	case <-ctx.Done():
	}
}

// sleep pauses for d and reports false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
