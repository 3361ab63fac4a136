package executor

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// User facing transport failure messages
const (
	MsgCancelled        = "Request cancelled"
	MsgTimeout          = "Request timeout - the backend took too long to answer"
	MsgProxy            = "Proxy connection failed - check HTTP_PROXY/HTTPS_PROXY"
	MsgDNS              = "DNS resolution failed - verify backend.base_url hostname and network"
	MsgRefused          = "Connection refused - is the backend running? check backend.base_url"
	MsgReset            = "Connection reset by backend - it may have crashed"
	MsgUnreachable      = "Network unreachable - check network connection and firewall settings"
	MsgHostUnreachable  = "Host unreachable - check if the backend is online"
	MsgRedirects        = "Too many redirects - check backend configuration"
	MsgInvalidURL       = "Invalid URL - backend.base_url must start with http:// or https://"
	MsgClosed           = "Connection closed unexpectedly by backend"
	MsgConnTimeout      = "Connection timeout - backend did not respond"
	MsgMalformed        = "Malformed HTTP response from backend"
	MsgTLSUntrusted     = "TLS certificate is not trusted - set backend.ca_file or backend.insecure_skip_verify"
	MsgTLSExpired       = "TLS certificate has expired"
	MsgTLSMismatch      = "TLS hostname mismatch - certificate doesn't match the backend hostname"
	MsgTLSHandshake     = "TLS handshake failed - check TLS version and cipher suites"
	MsgTLSBadCert       = "TLS bad certificate - client certificate rejected by backend"
	MsgTLSCertRequired  = "TLS client certificate required by backend"
	prefixTLS           = "TLS error: "
	prefixRequestFailed = "Request failed: "
)

type errorRule struct {
	needles []string
	message string
}

// Order matters: proxy errors usually also contain "connection refused",
// and TLS errors are refined by tlsRules.
var requestRules = []errorRule{
	{[]string{"context canceled", "context cancelled"}, MsgCancelled},
	{[]string{"deadline exceeded"}, MsgTimeout},
	{[]string{"proxy"}, MsgProxy},
	{[]string{"no such host", "dial tcp: lookup", "dns"}, MsgDNS},
	{[]string{"connection refused"}, MsgRefused},
	{[]string{"connection reset"}, MsgReset},
	{[]string{"network is unreachable", "no route to host"}, MsgUnreachable},
}

var tailRules = []errorRule{
	{[]string{"invalid url", "unsupported protocol"}, MsgInvalidURL},
	{[]string{"eof"}, MsgClosed},
	{[]string{"timeout", "timed out"}, MsgConnTimeout},
	{[]string{"malformed http"}, MsgMalformed},
}

var tlsRules = []errorRule{
	{[]string{"unknown authority", "not trusted"}, MsgTLSUntrusted},
	{[]string{"expired"}, MsgTLSExpired},
	{[]string{"is valid for", "name mismatch", "doesn't match"}, MsgTLSMismatch},
	{[]string{"handshake"}, MsgTLSHandshake},
	{[]string{"bad certificate"}, MsgTLSBadCert},
	{[]string{"certificate required"}, MsgTLSCertRequired},
}

func matchRules(rules []errorRule, errLower string) (string, bool) {
	for _, rule := range rules {
		for _, needle := range rule.needles {
			if strings.Contains(errLower, needle) {
				return rule.message, true
			}
		}
	}
	return "", false
}

// categorizeRequestError maps a transport error string to an actionable message
func categorizeRequestError(errStr string) string {
	if errStr == "" {
		return ""
	}

	errLower := strings.ToLower(errStr)

	if msg, ok := matchRules(requestRules, errLower); ok {
		return msg
	}

	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "x509") ||
		strings.Contains(errLower, "certificate") {
		return categorizeTLSError(errStr)
	}

	if strings.Contains(errLower, "stopped after") && strings.Contains(errLower, "redirect") {
		return MsgRedirects
	}

	if msg, ok := matchRules(tailRules, errLower); ok {
		return msg
	}

	return prefixRequestFailed + errStr
}

func categorizeTLSError(errStr string) string {
	if msg, ok := matchRules(tlsRules, strings.ToLower(errStr)); ok {
		return msg
	}
	return prefixTLS + errStr
}

// categorizeError inspects typed errors first, then falls back to the error text
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) {
		return MsgCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return MsgTLSUntrusted
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		if invalidCert.Reason == x509.Expired {
			return MsgTLSExpired
		}
		return prefixTLS + invalidCert.Error()
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return MsgTLSMismatch
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return MsgTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return MsgConnTimeout
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED:
				return MsgRefused
			case syscall.ECONNRESET:
				return MsgReset
			case syscall.ENETUNREACH:
				return MsgUnreachable
			case syscall.EHOSTUNREACH:
				return MsgHostUnreachable
			}
		}
	}

	return categorizeRequestError(err.Error())
}
