package token

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func seeded(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	g, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g
}

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	g := seeded(t)
	seenLengths := make(map[int]bool)

	for range 5000 {
		tok, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if len(tok) < 4 || len(tok) > 8 {
			t.Fatalf("token %q has length %d, want [4,8]", tok, len(tok))
		}
		for _, c := range tok {
			if !strings.ContainsRune(Alphabet, c) {
				t.Fatalf("token %q contains %q outside a-z0-9", tok, c)
			}
		}
		seenLengths[len(tok)] = true
	}

	for l := 4; l <= 8; l++ {
		if !seenLengths[l] {
			t.Errorf("length %d never generated in 5000 draws", l)
		}
	}
}

func TestGenerate_DefaultSource(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	tok, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(tok) < DefaultMinLength || len(tok) > DefaultMaxLength {
		t.Errorf("unexpected token length %d", len(tok))
	}
}

func TestGenerate_FixedLength(t *testing.T) {
	g := seeded(t, WithLengths(6, 6))
	for range 100 {
		tok, _ := g.Generate()
		if len(tok) != 6 {
			t.Fatalf("token %q has length %d, want 6", tok, len(tok))
		}
	}
}

func TestNew_InvalidLengths(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{"zero min", 0, 4},
		{"max below min", 5, 4},
		{"negative", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(WithLengths(tt.min, tt.max)); err == nil {
				t.Error("expected error for invalid lengths")
			}
		})
	}
}

func TestGenerate_WithFilter(t *testing.T) {
	f, err := NewFilter(`^[a-z]+$`)
	if err != nil {
		t.Fatalf("NewFilter() error: %v", err)
	}
	g := seeded(t, WithLengths(4, 4), WithFilter(f))

	for range 50 {
		tok, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if strings.ContainsAny(tok, "0123456789") {
			t.Fatalf("token %q should contain letters only", tok)
		}
	}
}

func TestGenerate_FilterExhausted(t *testing.T) {
	// Tokens never contain uppercase letters.
	f, err := NewFilter(`^[A-Z]{4}$`)
	if err != nil {
		t.Fatalf("NewFilter() error: %v", err)
	}
	g := seeded(t, WithFilter(f))

	_, err = g.Generate()
	if !errors.Is(err, ErrFilterExhausted) {
		t.Fatalf("expected ErrFilterExhausted, got %v", err)
	}
}
