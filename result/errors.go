package result

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory represents the classification of a probe transport error.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTLS               ErrorCategory = "tls"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ClassifyError determines the error category of a failed probe request.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	// url.Error wraps timeouts from http.Client.Timeout without a net.OpError
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return CategoryTimeout
	}

	if strings.Contains(err.Error(), "tls:") || strings.Contains(err.Error(), "x509:") {
		return CategoryTLS
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryTLS:
		return "TLS Errors"
	default:
		return "Other Errors"
	}
}
