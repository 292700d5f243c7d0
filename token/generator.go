// Package token generates random candidate identifiers for probing.
package token

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// Alphabet is the set of characters a token is drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	DefaultMinLength = 4
	DefaultMaxLength = 8

	// maxFilterDraws bounds how many candidates are drawn per Generate call
	// when a filter rejects them.
	maxFilterDraws = 1000
)

// ErrFilterExhausted is returned when no candidate matched the filter within
// the draw budget.
var ErrFilterExhausted = errors.New("no candidate matched the token filter")

// Generator produces random lowercase alphanumeric tokens.
// It is not safe for concurrent use.
type Generator struct {
	minLen int
	maxLen int
	rng    *rand.Rand
	filter *Filter
}

// Option configures a Generator.
type Option func(*Generator)

// WithLengths sets the inclusive length range of generated tokens.
func WithLengths(minLen, maxLen int) Option {
	return func(g *Generator) {
		g.minLen = minLen
		g.maxLen = maxLen
	}
}

// WithRand sets the random source. Tests use a seeded source for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithFilter only emits tokens accepted by f.
func WithFilter(f *Filter) Option {
	return func(g *Generator) {
		g.filter = f
	}
}

// New creates a Generator. Without options tokens are 4 to 8 characters long.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		minLen: DefaultMinLength,
		maxLen: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.minLen <= 0 || g.maxLen < g.minLen {
		return nil, fmt.Errorf("invalid token length range [%d,%d]", g.minLen, g.maxLen)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // tokens are not secrets
	}
	return g, nil
}

// Generate returns the next candidate token.
func (g *Generator) Generate() (string, error) {
	if g.filter == nil {
		return g.random(), nil
	}

	for range maxFilterDraws {
		candidate := g.random()
		ok, err := g.filter.Match(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d draws (pattern %q)", ErrFilterExhausted, maxFilterDraws, g.filter)
}

// random draws a length uniformly from [minLen,maxLen] and each character
// uniformly from Alphabet.
func (g *Generator) random() string {
	length := g.minLen + g.rng.IntN(g.maxLen-g.minLen+1)

	var sb strings.Builder
	sb.Grow(length)
	for range length {
		sb.WriteByte(Alphabet[g.rng.IntN(len(Alphabet))])
	}
	return sb.String()
}
