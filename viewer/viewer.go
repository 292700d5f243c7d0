// Package viewer opens URLs for the user to look at.
package viewer

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

// ErrNotHTTP is returned for URLs a browser should not be asked to open.
var ErrNotHTTP = errors.New("only http and https URLs can be opened")

// Opener shows a URL to the user.
type Opener interface {
	Open(rawURL string) error
}

// ForDisplay picks a Browser when goos has a usable display and a Printer
// writing to w otherwise. On X11/Wayland systems a display is present only
// when DISPLAY or WAYLAND_DISPLAY is set.
func ForDisplay(goos string, getenv func(string) string, w io.Writer) Opener {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris":
		if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
			return NewPrinter(w)
		}
	case "android", "ios", "js", "wasip1", "plan9":
		return NewPrinter(w)
	}
	return NewBrowser(io.Discard)
}

// Browser opens URLs with the system's default handler.
type Browser struct {
	open func(string) error
}

// NewBrowser returns a Browser. Output from the launched handler goes to w,
// which is usually io.Discard so it does not interleave with status lines.
func NewBrowser(w io.Writer) *Browser {
	if w == nil {
		w = io.Discard
	}
	browser.Stdout = w
	browser.Stderr = w
	return &Browser{open: browser.OpenURL}
}

// Open launches rawURL and blocks until the launcher command (xdg-open, open
// or rundll32) returns. It does not wait for the browser itself to exit.
func (b *Browser) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q: %w", rawURL, ErrNotHTTP)
	}
	if err := b.open(u.String()); err != nil {
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	return nil
}

// Printer "opens" URLs by writing them to w, for sessions without a display.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Open writes rawURL on its own line.
func (p *Printer) Open(rawURL string) error {
	if _, err := fmt.Fprintf(p.w, "  open: %s\n", rawURL); err != nil {
		return fmt.Errorf("print %s: %w", rawURL, err)
	}
	return nil
}
