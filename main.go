// Package main provides the pasteprobe CLI entrypoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/lukemcguire/pasteprobe/config"
	"github.com/lukemcguire/pasteprobe/explore"
	"github.com/lukemcguire/pasteprobe/prober"
	"github.com/lukemcguire/pasteprobe/prompt"
	"github.com/lukemcguire/pasteprobe/result"
	"github.com/lukemcguire/pasteprobe/token"
	"github.com/lukemcguire/pasteprobe/tui"
	"github.com/lukemcguire/pasteprobe/urlutil"
	"github.com/lukemcguire/pasteprobe/viewer"
)

// cliFlags are the command-line settings. Only flags the user actually set
// override the configuration file.
type cliFlags struct {
	configPath     string
	host           string
	scheme         string
	count          string
	open           bool
	maxAttempts    int
	timeout        time.Duration
	inspectTimeout time.Duration
	inspect        bool
	respectRobots  bool
	filter         string
	minLength      int
	maxLength      int
	userAgent      string
	delay          time.Duration
	rate           float64
	outDir         string
	export         string
	verbose        bool
	plain          bool
}

func parseFlags(fs *flag.FlagSet, args []string) (cliFlags, map[string]bool, error) {
	def := config.Default()
	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "TOML configuration file (default "+config.DefaultFile+" if present)")
	fs.StringVar(&f.host, "host", def.Target.Host, "paste host to probe")
	fs.StringVar(&f.scheme, "scheme", def.Target.Scheme, "scheme used when -host has none")
	fs.StringVar(&f.count, "count", "", "available URLs to find, a number or 'unlimited' (prompts when unset)")
	fs.BoolVar(&f.open, "open", false, "open taken URLs in the browser (prompts when unset)")
	fs.IntVar(&f.maxAttempts, "max-attempts", def.Session.MaxAttempts, "attempt budget, 0 for ten times the count")
	fs.DurationVar(&f.timeout, "timeout", def.Probe.Timeout, "existence check timeout")
	fs.DurationVar(&f.inspectTimeout, "inspect-timeout", def.Probe.InspectTimeout, "content inspection timeout")
	fs.BoolVar(&f.inspect, "inspect", def.Probe.Inspect, "fetch and classify the content of taken URLs")
	fs.BoolVar(&f.respectRobots, "respect-robots", def.Probe.RespectRobots, "skip candidates disallowed by robots.txt")
	fs.StringVar(&f.filter, "filter", def.Token.Filter, "regular expression candidates must match")
	fs.IntVar(&f.minLength, "min-length", def.Token.MinLength, "shortest token length")
	fs.IntVar(&f.maxLength, "max-length", def.Token.MaxLength, "longest token length")
	fs.StringVar(&f.userAgent, "user-agent", def.Probe.UserAgent, "user agent string")
	fs.DurationVar(&f.delay, "delay", def.Session.Delay, "pause after every attempt")
	fs.Float64Var(&f.rate, "rate", def.Session.Rate, "requests per second ceiling, 0 for none")
	fs.StringVar(&f.outDir, "out-dir", def.Output.Dir, "directory for the available URLs report")
	fs.StringVar(&f.export, "export", def.Output.Export, "also write every result to a .json, .csv or .md file")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	fs.BoolVar(&f.plain, "plain", false, "line output instead of the terminal UI")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// overlay copies explicitly set flags onto cfg.
func (f cliFlags) overlay(cfg *config.Config, set map[string]bool) {
	if set["host"] {
		cfg.Target.Host = f.host
	}
	if set["scheme"] {
		cfg.Target.Scheme = f.scheme
	}
	if set["max-attempts"] {
		cfg.Session.MaxAttempts = f.maxAttempts
	}
	if set["timeout"] {
		cfg.Probe.Timeout = f.timeout
	}
	if set["inspect-timeout"] {
		cfg.Probe.InspectTimeout = f.inspectTimeout
	}
	if set["inspect"] {
		cfg.Probe.Inspect = f.inspect
	}
	if set["respect-robots"] {
		cfg.Probe.RespectRobots = f.respectRobots
	}
	if set["filter"] {
		cfg.Token.Filter = f.filter
	}
	if set["min-length"] {
		cfg.Token.MinLength = f.minLength
	}
	if set["max-length"] {
		cfg.Token.MaxLength = f.maxLength
	}
	if set["user-agent"] {
		cfg.Probe.UserAgent = f.userAgent
	}
	if set["delay"] {
		cfg.Session.Delay = f.delay
	}
	if set["rate"] {
		cfg.Session.Rate = f.rate
	}
	if set["out-dir"] {
		cfg.Output.Dir = f.outDir
	}
	if set["export"] {
		cfg.Output.Export = f.export
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadOptional(config.DefaultFile)
	return cfg, err
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	flags, set, err := parseFlags(flag.NewFlagSet("pasteprobe", flag.ContinueOnError), args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	flags.overlay(&cfg, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		return 1
	}
	baseURL, err := cfg.BaseURL()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	gen, err := newGenerator(cfg.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer recoverSession(os.Stderr, &code)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("=== Paste Explorer ===")
	fmt.Println()

	prompter := prompt.New(os.Stdin, os.Stdout)
	target, openTaken, err := sessionChoices(ctx, prompter, flags, set)
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			fmt.Println("\n\nCancelled by user.")
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	host := urlutil.Host(baseURL)
	probeCfg := prober.DefaultConfig(baseURL)
	probeCfg.UserAgent = cfg.Probe.UserAgent
	probeCfg.RequestTimeout = cfg.Probe.Timeout
	probeCfg.InspectTimeout = cfg.Probe.InspectTimeout
	probeCfg.ServiceMarkers = cfg.Probe.ServiceMarkers
	probeCfg.ErrorIndicators = cfg.Probe.ErrorIndicators
	probe := prober.New(probeCfg, &http.Client{})

	exploreCfg := explore.DefaultConfig(target)
	exploreCfg.Delay = cfg.Session.Delay
	exploreCfg.OpenDelay = cfg.Session.OpenDelay
	exploreCfg.RateLimit = cfg.Session.Rate
	if cfg.Session.MaxAttempts > 0 {
		exploreCfg.MaxAttempts = result.Finite(cfg.Session.MaxAttempts)
	}

	useTUI := !flags.plain && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	if useTUI && !flags.verbose {
		// Warnings would tear the live view; request errors show in the summary.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	opts := []explore.Option{explore.WithLogger(logger)}
	if cfg.Probe.Inspect {
		opts = append(opts, explore.WithInspector(probe))
	}
	headless := false
	if openTaken {
		// The live view already lists every URL, so printed fallbacks are dropped there.
		var urlOut io.Writer = os.Stdout
		if useTUI {
			urlOut = io.Discard
		}
		opener := viewer.ForDisplay(runtime.GOOS, os.Getenv, urlOut)
		_, headless = opener.(*viewer.Printer)
		if headless {
			logger.Info("no display found, listing URLs instead of opening them")
		}
		opts = append(opts, explore.WithOpener(opener))
	}
	if cfg.Probe.RespectRobots {
		robotsClient := &http.Client{Timeout: 5 * time.Second}
		opts = append(opts, explore.WithRobots(prober.NewRobotsChecker(robotsClient, cfg.Probe.UserAgent)))
	}

	printIntro(os.Stdout, host, target, openTaken)

	var (
		session *result.Session
		runErr  error
	)
	if useTUI {
		progressCh := make(chan explore.Event, 100)
		explorer := explore.New(exploreCfg, gen, probe, append(opts, explore.WithProgress(progressCh))...)
		printBudget(os.Stdout, explorer.Config())
		session, runErr = tui.Run(ctx, explorer, target, progressCh, os.Stdout)
	} else {
		explorer := explore.New(exploreCfg, gen, probe, append(opts, explore.WithPrinter(os.Stdout))...)
		printBudget(os.Stdout, explorer.Config())
		session, runErr = explorer.Run(ctx)
		if session != nil {
			fmt.Println()
			result.PrintSummary(os.Stdout, session)
		}
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}
	if session == nil {
		return 0
	}

	now := time.Now()
	path, err := result.WriteReportFile(cfg.Output.Dir, host, session, now)
	switch {
	case errors.Is(err, result.ErrNothingToReport):
	case err != nil:
		fmt.Fprintf(os.Stderr, "Could not save results: %v\n", err)
	default:
		fmt.Printf("\nResults saved to: %s\n", path)
	}

	if cfg.Output.Export != "" {
		if err := writeExport(cfg.Output.Export, host, session, now); err != nil {
			fmt.Fprintf(os.Stderr, "Could not export results: %v\n", err)
		} else {
			fmt.Printf("Exported %d results to: %s\n", len(session.Results), cfg.Output.Export)
		}
	}

	if len(session.Available) > 0 && openTaken && !headless {
		fmt.Println("Check your browser tabs for discovered content!")
	}
	return 0
}

// recoverSession turns a panic during a session into a printed error and a
// zero exit status. It must be deferred directly by run.
func recoverSession(w io.Writer, code *int) {
	if r := recover(); r != nil {
		fmt.Fprintf(w, "\nUnexpected error: %v\n", r)
		*code = 0
	}
}

func newGenerator(cfg config.TokenConfig) (*token.Generator, error) {
	opts := []token.Option{token.WithLengths(cfg.MinLength, cfg.MaxLength)}
	if cfg.Filter != "" {
		filter, err := token.NewFilter(cfg.Filter)
		if err != nil {
			return nil, fmt.Errorf("token filter: %w", err)
		}
		opts = append(opts, token.WithFilter(filter))
	}
	gen, err := token.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("token generator: %w", err)
	}
	return gen, nil
}

// sessionChoices resolves the target and viewer toggle from flags, prompting
// for whichever was not given. An interrupt while waiting for input counts as
// cancellation.
func sessionChoices(ctx context.Context, p *prompt.Prompter, flags cliFlags, set map[string]bool) (result.Limit, bool, error) {
	var target result.Limit
	if set["count"] {
		t, err := prompt.ParseTarget(flags.count)
		if err != nil {
			return result.Limit{}, false, fmt.Errorf("-count: %w", err)
		}
		target = t
	} else {
		t, err := ask(ctx, p.Target)
		if err != nil {
			return result.Limit{}, false, err
		}
		target = t
	}

	if set["open"] {
		return target, flags.open, nil
	}
	openTaken, err := ask(ctx, p.OpenTaken)
	if err != nil {
		return result.Limit{}, false, err
	}
	return target, openTaken, nil
}

// ask runs a blocking prompt and gives up when ctx is cancelled. The reading
// goroutine is abandoned in that case; the process is about to exit.
func ask[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type answer struct {
		v   T
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		v, err := fn()
		ch <- answer{v, err}
	}()
	select {
	case a := <-ch:
		return a.v, a.err
	case <-ctx.Done():
		var zero T
		return zero, prompt.ErrCancelled
	}
}

func printIntro(w io.Writer, host string, target result.Limit, openTaken bool) {
	fmt.Fprintln(w, "\nStarting content exploration...")
	if openTaken {
		fmt.Fprintln(w, "Note: Available URLs (404) = ready to use | Taken URLs = will open to discover content!")
	} else {
		fmt.Fprintln(w, "Note: Available URLs (404) = ready to use | Taken URLs = reported but not opened")
	}
	fmt.Fprintln(w)
	if target.IsUnbounded() {
		fmt.Fprintf(w, "Exploring UNLIMITED %s content...\n", host)
	} else {
		fmt.Fprintf(w, "Exploring %s content (looking for %s available URLs)...\n", host, target)
	}
	fmt.Fprintln(w, "Method: random")
}

func printBudget(w io.Writer, cfg explore.Config) {
	if cfg.MaxAttempts.IsUnbounded() {
		fmt.Fprintln(w, "Max attempts: UNLIMITED (Press Ctrl+C to stop)")
	} else {
		fmt.Fprintf(w, "Max attempts: %s\n", cfg.MaxAttempts)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// writeExport writes every probe result to path in the format its extension
// names.
func writeExport(path, host string, s *result.Session, now time.Time) (err error) {
	format, err := config.ExportFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is user-chosen
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close export file: %w", closeErr))
		}
	}()

	switch format {
	case config.FormatJSON:
		return result.WriteJSON(f, s.Results)
	case config.FormatCSV:
		return result.WriteCSV(f, s.Results)
	default:
		return result.WriteMarkdown(f, host, s, now)
	}
}
