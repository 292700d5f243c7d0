package result

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: CategoryTimeout,
		},
		{
			name: "wrapped deadline exceeded",
			err:  fmt.Errorf("head request: %w", context.DeadlineExceeded),
			want: CategoryTimeout,
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "example.invalid"},
			want: CategoryDNSFailure,
		},
		{
			name: "connection refused",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: errors.New("connect: connection refused"),
			},
			want: CategoryConnectionRefused,
		},
		{
			name: "tls failure",
			err:  &url.Error{Op: "Head", URL: "https://example.com", Err: errors.New("tls: handshake failure")},
			want: CategoryTLS,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got != tt.want {
				t.Errorf("ClassifyError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCategory(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{CategoryTimeout, "Timeouts"},
		{CategoryDNSFailure, "DNS Failures"},
		{CategoryConnectionRefused, "Connection Refused"},
		{CategoryTLS, "TLS Errors"},
		{CategoryUnknown, "Other Errors"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			got := FormatCategory(tt.cat)
			if got != tt.want {
				t.Errorf("FormatCategory(%v) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}
