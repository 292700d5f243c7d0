package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const (
	maxPatternLength = 200
	maxQuantifiers   = 5
	matchTimeout     = 100 * time.Millisecond
)

// dangerousPatterns are nested-quantifier shapes known to backtrack badly.
var dangerousPatterns = []string{
	"(.*)*",
	"(.+)+",
	"(a+)+",
	"(a*)*",
	"(.{0,})*",
	"(\\w+)*\\w*",
}

// Filter restricts generated candidates to those matching a regular
// expression. Patterns use .NET/Perl syntax so lookarounds are available,
// e.g. `^(?!.*\d)` for letters-only tokens.
type Filter struct {
	re *regexp2.Regexp
}

// NewFilter compiles pattern after rejecting patterns prone to catastrophic
// backtracking. Matching is additionally bounded by a timeout.
func NewFilter(pattern string) (*Filter, error) {
	if err := validateComplexity(pattern); err != nil {
		return nil, fmt.Errorf("token filter rejected: %w", err)
	}

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile token filter %q: %w", pattern, err)
	}
	re.MatchTimeout = matchTimeout

	return &Filter{re: re}, nil
}

// Match reports whether candidate is accepted.
func (f *Filter) Match(candidate string) (bool, error) {
	ok, err := f.re.MatchString(candidate)
	if err != nil {
		return false, fmt.Errorf("match token filter %q against %q: %w", f.re.String(), candidate, err)
	}
	return ok, nil
}

func (f *Filter) String() string {
	return f.re.String()
}

func validateComplexity(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("empty pattern")
	}
	if len(pattern) > maxPatternLength {
		return fmt.Errorf("pattern too long (max %d characters)", maxPatternLength)
	}

	for _, dangerous := range dangerousPatterns {
		if strings.Contains(pattern, dangerous) {
			return fmt.Errorf("potentially dangerous pattern: %s", dangerous)
		}
	}

	if n := strings.Count(pattern, "+") + strings.Count(pattern, "*"); n > maxQuantifiers {
		return fmt.Errorf("too many quantifiers in pattern (max %d)", maxQuantifiers)
	}
	return nil
}
