// Package config holds the pasteprobe settings: built-in defaults, an
// optional TOML file and validation. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lukemcguire/pasteprobe/prober"
	"github.com/lukemcguire/pasteprobe/token"
	"github.com/lukemcguire/pasteprobe/urlutil"
)

// DefaultFile is read from the working directory when no -config is given.
const DefaultFile = ".pasteprobe.toml"

// Config is the full run configuration.
type Config struct {
	Target  TargetConfig  `toml:"target"`
	Token   TokenConfig   `toml:"token"`
	Probe   ProbeConfig   `toml:"probe"`
	Session SessionConfig `toml:"session"`
	Output  OutputConfig  `toml:"output"`
}

// TargetConfig names the paste host.
type TargetConfig struct {
	Host   string `toml:"host"`
	Scheme string `toml:"scheme"`
}

// TokenConfig shapes generated candidates.
type TokenConfig struct {
	MinLength int    `toml:"min_length"`
	MaxLength int    `toml:"max_length"`
	Filter    string `toml:"filter"` // Optional regular expression candidates must match
}

// ProbeConfig controls the HTTP checks.
type ProbeConfig struct {
	Timeout        time.Duration `toml:"timeout"`
	InspectTimeout time.Duration `toml:"inspect_timeout"`
	Inspect        bool          `toml:"inspect"`
	UserAgent      string        `toml:"user_agent"`
	RespectRobots  bool          `toml:"respect_robots"`

	// Lower-case substrings used by content inspection.
	ServiceMarkers  []string `toml:"service_markers"`
	ErrorIndicators []string `toml:"error_indicators"`
}

// SessionConfig controls the exploration loop.
type SessionConfig struct {
	MaxAttempts int           `toml:"max_attempts"` // 0 derives the budget from the target
	Delay       time.Duration `toml:"delay"`
	OpenDelay   time.Duration `toml:"open_delay"`
	Rate        float64       `toml:"rate"` // Requests per second, 0 is unlimited
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Dir    string `toml:"dir"`
	Export string `toml:"export"` // Optional .json, .csv or .md path
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Target: TargetConfig{
			Host:   "rentry.co",
			Scheme: "https",
		},
		Token: TokenConfig{
			MinLength: token.DefaultMinLength,
			MaxLength: token.DefaultMaxLength,
		},
		Probe: ProbeConfig{
			Timeout:         5 * time.Second,
			InspectTimeout:  10 * time.Second,
			UserAgent:       prober.DefaultUserAgent,
			ServiceMarkers:  prober.DefaultServiceMarkers(),
			ErrorIndicators: prober.DefaultErrorIndicators(),
		},
		Session: SessionConfig{
			Delay:     300 * time.Millisecond,
			OpenDelay: 1500 * time.Millisecond,
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}

// Load decodes the TOML file at path over the defaults. Keys the file sets
// replace defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does not
// exist. found reports whether a file was read.
func LoadOptional(path string) (cfg Config, found bool, err error) {
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		return Default(), false, nil
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

// BaseURL returns the normalised service URL for the configured host.
func (c Config) BaseURL() (string, error) {
	return urlutil.BaseURL(c.Target.Host, c.Target.Scheme)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Target.Scheme != "http" && c.Target.Scheme != "https" {
		errs = append(errs, fmt.Errorf("target.scheme must be http or https, got %q", c.Target.Scheme))
	}
	if _, err := c.BaseURL(); err != nil {
		errs = append(errs, fmt.Errorf("target.host: %w", err))
	}
	if c.Token.MinLength <= 0 || c.Token.MaxLength < c.Token.MinLength {
		errs = append(errs, fmt.Errorf("token lengths must satisfy 0 < min_length <= max_length, got %d and %d",
			c.Token.MinLength, c.Token.MaxLength))
	}
	if c.Token.Filter != "" {
		if _, err := token.NewFilter(c.Token.Filter); err != nil {
			errs = append(errs, fmt.Errorf("token.filter: %w", err))
		}
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe.timeout must be positive, got %s", c.Probe.Timeout))
	}
	if c.Probe.InspectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("probe.inspect_timeout must be positive, got %s", c.Probe.InspectTimeout))
	}
	for _, m := range append(append([]string{}, c.Probe.ServiceMarkers...), c.Probe.ErrorIndicators...) {
		if m != strings.ToLower(m) {
			errs = append(errs, fmt.Errorf("probe markers must be lower case, got %q", m))
			break
		}
	}
	if c.Session.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("session.max_attempts must not be negative, got %d", c.Session.MaxAttempts))
	}
	if c.Session.Delay < 0 || c.Session.OpenDelay < 0 {
		errs = append(errs, errors.New("session delays must not be negative"))
	}
	if c.Session.Rate < 0 {
		errs = append(errs, fmt.Errorf("session.rate must not be negative, got %g", c.Session.Rate))
	}
	if c.Output.Export != "" {
		if _, err := ExportFormat(c.Output.Export); err != nil {
			errs = append(errs, fmt.Errorf("output.export: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// ExportFormat returns the export format implied by path's extension.
func ExportFormat(path string) (string, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export file %q (use .json, .csv or .md)", path)
	}
}
