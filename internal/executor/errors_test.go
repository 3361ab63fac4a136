package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

func TestCategorizeRequestError(t *testing.T) {
	tests := []struct {
		name     string
		errStr   string
		wantText string
	}{
		{"empty error", "", ""},
		{"deadline exceeded", `Post "http://localhost:8000/chat": context deadline exceeded`, MsgTimeout},
		{"context canceled", "context canceled", MsgCancelled},
		{"DNS lookup failure", "dial tcp: lookup backend.invalid: no such host", MsgDNS},
		{"connection refused", "dial tcp 127.0.0.1:8000: connect: connection refused", MsgRefused},
		{"connection reset", "read tcp 127.0.0.1:8000->127.0.0.1:54321: read: connection reset by peer", MsgReset},
		{"proxy before refused", "proxyconnect tcp: dial tcp 127.0.0.1:8080: connect: connection refused", MsgProxy},
		{"network unreachable", "dial tcp: network is unreachable", MsgUnreachable},
		{"unknown authority", "x509: certificate signed by unknown authority", MsgTLSUntrusted},
		{"expired", "x509: certificate has expired or is not yet valid", MsgTLSExpired},
		{"hostname mismatch", "x509: certificate is valid for a.example, not b.example", MsgTLSMismatch},
		{"handshake", "remote error: tls: handshake failure", MsgTLSHandshake},
		{"bad certificate", "remote error: tls: bad certificate", MsgTLSBadCert},
		{"generic tls", "tls: first record does not look like a TLS handshake", MsgTLSHandshake},
		{"other tls", "tls: weird thing", prefixTLS + "tls: weird thing"},
		{"redirects", `Get "http://localhost:8000/": stopped after 10 redirects`, MsgRedirects},
		{"invalid URL", `unsupported protocol scheme "ftp"`, MsgInvalidURL},
		{"EOF", "unexpected EOF", MsgClosed},
		{"i/o timeout", "read tcp: i/o timeout", MsgConnTimeout},
		{"malformed", "net/http: malformed HTTP response", MsgMalformed},
		{"unknown", "something went wrong", "Request failed: something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeRequestError(tt.errStr)
			if got != tt.wantText {
				t.Errorf("categorizeRequestError(%q) = %q, want %q", tt.errStr, got, tt.wantText)
			}
		})
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{"nil error", nil, ""},
		{"deadline", context.DeadlineExceeded, MsgTimeout},
		{"canceled", context.Canceled, MsgCancelled},
		{
			name:     "url error wrapping cancel",
			err:      &url.Error{Op: "Post", URL: "http://localhost:8000/chat", Err: context.Canceled},
			wantText: MsgCancelled,
		},
		{
			name:     "refused errno",
			err:      &url.Error{Op: "Get", URL: "http://localhost:8000/", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}},
			wantText: MsgRefused,
		},
		{
			name:     "reset errno",
			err:      &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET},
			wantText: MsgReset,
		},
		{
			name:     "host unreachable errno",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: syscall.EHOSTUNREACH},
			wantText: MsgHostUnreachable,
		},
		{
			name:     "wrapped plain error",
			err:      fmt.Errorf("send: %w", errors.New("dial tcp: lookup backend.invalid: no such host")),
			wantText: MsgDNS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeError(tt.err)
			if got != tt.wantText {
				t.Errorf("categorizeError() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestKnownErrorsHaveNoGenericPrefix(t *testing.T) {
	for _, errStr := range []string{
		"context deadline exceeded",
		"no such host",
		"connection refused",
		"x509: certificate signed by unknown authority",
	} {
		if got := categorizeRequestError(errStr); strings.HasPrefix(got, prefixRequestFailed) {
			t.Errorf("categorizeRequestError(%q) = %q, want a specific message", errStr, got)
		}
	}
}
