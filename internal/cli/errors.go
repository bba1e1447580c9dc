package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"strings"
)

// ErrorKind tags a failure with where it came from so the exit code can be
// chosen without inspecting message text.
type ErrorKind int

const (
	// KindUnknown marks errors that carry no structured kind.
	KindUnknown ErrorKind = iota
	// KindParse marks malformed command text.
	KindParse
	// KindConnection marks transport or handshake failures.
	KindConnection
	// KindProtocol marks failures reported by the server itself.
	KindProtocol
	// KindDecode marks malformed JSON in stdin or arguments.
	KindDecode
	// KindInterrupted marks external cancellation such as Ctrl-C.
	KindInterrupted
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindConnection:
		return "connection error"
	case KindProtocol:
		return "protocol error"
	case KindDecode:
		return "decode error"
	case KindInterrupted:
		return "interrupted"
	default:
		return "error"
	}
}

// Error is a failure with a structured kind.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Message is the user-facing description.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the cause when both are present.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so
// errors.Is(err, ErrInterrupted) matches any interruption.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrInterrupted is returned when the user cancels a pending operation.
var ErrInterrupted = &Error{Kind: KindInterrupted, Message: "interrupted by user"}

// NewParseError reports malformed command text.
func NewParseError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

// NewDecodeError reports malformed JSON read from what (for example "stdin").
func NewDecodeError(what string, err error) *Error {
	return &Error{Kind: KindDecode, Message: fmt.Sprintf("invalid JSON in %s", what), Err: err}
}

// NewProtocolError reports a failure returned by the server for op.
func NewProtocolError(op string, err error) *Error {
	return &Error{Kind: KindProtocol, Message: op, Err: err}
}

// KindOf returns the structured kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return KindConnection
	}
	var kindErr *Error
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindInterrupted
	}
	return KindUnknown
}

// ConnectionErrorType categorizes the type of connection error.
type ConnectionErrorType int

const (
	// ConnectionErrorUnknown indicates an unclassified connection error.
	ConnectionErrorUnknown ConnectionErrorType = iota
	// ConnectionErrorTLS indicates a TLS/certificate verification error.
	ConnectionErrorTLS
	// ConnectionErrorNetwork indicates a network connectivity error (e.g., refused, unreachable).
	ConnectionErrorNetwork
	// ConnectionErrorTimeout indicates a connection timeout.
	ConnectionErrorTimeout
	// ConnectionErrorDNS indicates a DNS resolution failure.
	ConnectionErrorDNS
	// ConnectionErrorProcess indicates a stdio server process that could not start or exited.
	ConnectionErrorProcess
)

// String returns a human-readable name for the connection error type.
func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	case ConnectionErrorProcess:
		return "Process error"
	default:
		return "Connection error"
	}
}

// ConnectionError indicates a failure to connect to, or stay connected with, a target.
type ConnectionError struct {
	// Endpoint is the URL or command line that could not be reached.
	Endpoint string
	// Type categorizes the connection error.
	Type ConnectionErrorType
	// Reason is the underlying error.
	Reason error
}

// Error returns the category, endpoint and cause.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Type, e.Endpoint, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// ClassifyConnectionError analyzes an error and returns a ConnectionError with the appropriate type.
// If the error is nil, returns nil.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	if err == nil {
		return nil
	}

	var existing *ConnectionError
	if errors.As(err, &existing) {
		return existing
	}

	connErr := &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorUnknown, Reason: err}

	var dnsErr *net.DNSError
	var execErr *exec.Error
	switch {
	case isTLSError(err):
		connErr.Type = ConnectionErrorTLS
	case errors.As(err, &dnsErr):
		connErr.Type = ConnectionErrorDNS
	case isTimeoutError(err):
		connErr.Type = ConnectionErrorTimeout
	case isNetworkError(err.Error()):
		connErr.Type = ConnectionErrorNetwork
	case errors.As(err, &execErr) || isProcessError(err.Error()):
		connErr.Type = ConnectionErrorProcess
	}
	return connErr
}

// isTLSError checks if the error is related to TLS/certificate issues.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}

	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	var systemRootsErr *x509.SystemRootsError

	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "certificate", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isTimeoutError checks if the error is a timeout.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// net.Error is an interface, so unwrap by hand.
	for e := err; e != nil; {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return true
		}
		if u, ok := e.(interface{ Unwrap() error }); ok {
			e = u.Unwrap()
		} else {
			break
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isNetworkError checks if the error string indicates a network connectivity issue.
func isNetworkError(errStr string) bool {
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connect:",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isProcessError checks if the error string points at a failed stdio subprocess.
func isProcessError(errStr string) bool {
	for _, keyword := range []string{
		"executable file not found",
		"no such file or directory",
		"permission denied",
		"broken pipe",
		"file already closed",
	} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
