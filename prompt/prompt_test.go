package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lukemcguire/pasteprobe/result"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    result.Limit
		wantErr bool
	}{
		{input: "5", want: result.Finite(5)},
		{input: "  12\n", want: result.Finite(12)},
		{input: "unlimited", want: result.Unbounded()},
		{input: "INF", want: result.Unbounded()},
		{input: "infinite", want: result.Unbounded()},
		{input: "u", want: result.Unbounded()},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "2.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTarget) {
					t.Errorf("ParseTarget(%q) error = %v, want ErrInvalidTarget", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTarget(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input      string
		wantAnswer bool
		wantOK     bool
	}{
		{"y", true, true},
		{"YES", true, true},
		{"1", true, true},
		{"true", true, true},
		{"n", false, true},
		{"No", false, true},
		{"0", false, true},
		{"false", false, true},
		{"maybe", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		answer, ok := ParseYesNo(tt.input)
		if answer != tt.wantAnswer || ok != tt.wantOK {
			t.Errorf("ParseYesNo(%q) = (%v, %v), want (%v, %v)", tt.input, answer, ok, tt.wantAnswer, tt.wantOK)
		}
	}
}

func TestPrompter_TargetReprompts(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n0\n7\n"), &out)

	got, err := p.Target()
	if err != nil {
		t.Fatalf("Target() error: %v", err)
	}
	if got != result.Finite(7) {
		t.Errorf("Target() = %v, want 7", got)
	}
	text := out.String()
	if !strings.Contains(text, "Please enter a valid number or 'unlimited'.") {
		t.Errorf("missing invalid-number hint:\n%s", text)
	}
	if !strings.Contains(text, "Please enter a positive number.") {
		t.Errorf("missing positive-number hint:\n%s", text)
	}
	if n := strings.Count(text, "How many available URLs to find?"); n != 3 {
		t.Errorf("asked %d times, want 3", n)
	}
}

func TestPrompter_TargetUnlimited(t *testing.T) {
	var out bytes.Buffer
	got, err := New(strings.NewReader("unlimited\n"), &out).Target()
	if err != nil {
		t.Fatalf("Target() error: %v", err)
	}
	if !got.IsUnbounded() {
		t.Errorf("Target() = %v, want unlimited", got)
	}
	if !strings.Contains(out.String(), "Unlimited mode activated!") {
		t.Errorf("missing unlimited notice:\n%s", out.String())
	}
}

func TestPrompter_LastLineWithoutNewline(t *testing.T) {
	got, err := New(strings.NewReader("4"), &bytes.Buffer{}).Target()
	if err != nil || got != result.Finite(4) {
		t.Errorf("Target() = %v, %v, want 4, nil", got, err)
	}
}

func TestPrompter_EOFCancels(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ask   func(*Prompter) error
	}{
		{
			name:  "target on empty input",
			input: "",
			ask:   func(p *Prompter) error { _, err := p.Target(); return err },
		},
		{
			name:  "target after invalid answers",
			input: "x\ny\n",
			ask:   func(p *Prompter) error { _, err := p.Target(); return err },
		},
		{
			name:  "open taken",
			input: "perhaps\n",
			ask:   func(p *Prompter) error { _, err := p.OpenTaken(); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ask(New(strings.NewReader(tt.input), &bytes.Buffer{}))
			if !errors.Is(err, ErrCancelled) {
				t.Errorf("error = %v, want ErrCancelled", err)
			}
		})
	}
}

func TestPrompter_OpenTaken(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("sure\nyes\n"), &out)

	got, err := p.OpenTaken()
	if err != nil {
		t.Fatalf("OpenTaken() error: %v", err)
	}
	if !got {
		t.Error("OpenTaken() = false, want true")
	}
	if !strings.Contains(out.String(), "Please enter 'y' or 'n'.") {
		t.Errorf("missing y/n hint:\n%s", out.String())
	}
}

func TestPrompter_SharedReader(t *testing.T) {
	p := New(strings.NewReader("3\nn\n"), &bytes.Buffer{})

	target, err := p.Target()
	if err != nil || target != result.Finite(3) {
		t.Fatalf("Target() = %v, %v", target, err)
	}
	open, err := p.OpenTaken()
	if err != nil || open {
		t.Fatalf("OpenTaken() = %v, %v, want false, nil", open, err)
	}
}
